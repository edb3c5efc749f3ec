package get_session_status

// Request запрос статуса сессии после возврата клиента с оплаты
type Request struct {
	SessionID string
}

// Response статус сессии и ссылки на платёж и бронирование
type Response struct {
	Status        string // open, complete, expired
	CustomerEmail string
	PaymentID     string
	BookingID     string
}
