package models

import "github.com/m04kA/CourtBookingService/internal/domain"

// QuotaResponse статус участника и остаток бесплатных слотов
type QuotaResponse struct {
	IsMember       bool `json:"isMember"`
	SlotsRemaining int  `json:"slotsRemaining"`
}

// MemberResponse участник с использованными слотами по годам
type MemberResponse struct {
	Email       string                `json:"email"`
	YearlySlots []YearlySlotsResponse `json:"yearlySlots"`
}

// YearlySlotsResponse использованные слоты за год
type YearlySlotsResponse struct {
	Year      int     `json:"year"`
	UsedSlots []int64 `json:"usedSlots"`
}

// FromDomainMember конвертирует участника в ответ API
func FromDomainMember(m *domain.Member) *MemberResponse {
	years := make([]YearlySlotsResponse, 0, len(m.YearlySlots))
	for _, ys := range m.YearlySlots {
		used := ys.UsedSlots
		if used == nil {
			used = []int64{}
		}
		years = append(years, YearlySlotsResponse{Year: ys.Year, UsedSlots: used})
	}
	return &MemberResponse{Email: m.Email, YearlySlots: years}
}

// FromDomainMemberList конвертирует список участников
func FromDomainMemberList(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, 0, len(members))
	for _, m := range members {
		result = append(result, FromDomainMember(m))
	}
	return result
}
