package models

type Bar struct {
	ID       int     `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Details  *string `json:"details" db:"details"`
	IsActive bool    `json:"is_active" db:"is_active"`
}

func (b *Bar) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "bar",
	}
}
