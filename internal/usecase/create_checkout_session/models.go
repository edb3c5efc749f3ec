package create_checkout_session

// Request создание сессии оплаты для бронирования
type Request struct {
	BookingID string
}

// Response данные для встроенной формы оплаты
type Response struct {
	SessionID    string
	ClientSecret string
}
