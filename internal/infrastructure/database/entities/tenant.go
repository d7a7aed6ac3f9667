package entities

import (
	"time"

	"sitebot-server/services/assistant-api/internal/domain/tenant"
)

// Tenant represents the database schema for tenant accounts
type Tenant struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name     string `gorm:"type:varchar(256);not null"`
	Slug     string `gorm:"type:varchar(120);uniqueIndex;not null"`

	EmbedKey   string `gorm:"type:varchar(64);uniqueIndex;not null"`
	EmbedToken string `gorm:"type:varchar(64);uniqueIndex;not null"`

	AllowedDomains StringSlice `gorm:"type:jsonb"`
	DefaultLocale  string      `gorm:"type:varchar(8);not null;default:'en'"`
	EnabledLocales StringSlice `gorm:"type:jsonb"`

	Plan          string               `gorm:"type:varchar(40);not null;default:'free'"`
	BillingStatus tenant.BillingStatus `gorm:"type:varchar(20);not null;default:'incomplete'"`
	TrialEndsAt   *time.Time
	PeriodEndsAt  *time.Time

	SystemPrompt        *string `gorm:"type:text"`
	QualificationPrompt *string `gorm:"type:text"`
	KnowledgeText       *string `gorm:"type:text"`
	ContactEmail        *string `gorm:"type:varchar(256)"`

	Theme          StringMap `gorm:"type:jsonb"`
	ShowBranding   bool      `gorm:"not null;default:true"`
	LocaleAuto     bool      `gorm:"not null;default:true"`
	ShowHeaderIcon bool      `gorm:"not null;default:true"`

	Heartbeats TimeMap `gorm:"type:jsonb"`
}

// TableName specifies the table name for Tenant.
func (Tenant) TableName() string {
	return "tenants"
}

// EtoD converts database entity to domain model
func (t *Tenant) EtoD() *tenant.Tenant {
	return &tenant.Tenant{
		ID:                  t.ID,
		PublicID:            t.PublicID,
		Name:                t.Name,
		Slug:                t.Slug,
		EmbedKey:            t.EmbedKey,
		EmbedToken:          t.EmbedToken,
		AllowedDomains:      t.AllowedDomains,
		DefaultLocale:       t.DefaultLocale,
		EnabledLocales:      t.EnabledLocales,
		Plan:                t.Plan,
		BillingStatus:       t.BillingStatus,
		TrialEndsAt:         t.TrialEndsAt,
		PeriodEndsAt:        t.PeriodEndsAt,
		SystemPrompt:        t.SystemPrompt,
		QualificationPrompt: t.QualificationPrompt,
		KnowledgeText:       t.KnowledgeText,
		ContactEmail:        t.ContactEmail,
		Theme:               t.Theme,
		ShowBranding:        t.ShowBranding,
		LocaleAuto:          t.LocaleAuto,
		ShowHeaderIcon:      t.ShowHeaderIcon,
		Heartbeats:          t.Heartbeats,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// NewSchemaTenant creates a database entity from domain model
func NewSchemaTenant(t *tenant.Tenant) *Tenant {
	return &Tenant{
		ID:                  t.ID,
		PublicID:            t.PublicID,
		Name:                t.Name,
		Slug:                t.Slug,
		EmbedKey:            t.EmbedKey,
		EmbedToken:          t.EmbedToken,
		AllowedDomains:      t.AllowedDomains,
		DefaultLocale:       t.DefaultLocale,
		EnabledLocales:      t.EnabledLocales,
		Plan:                t.Plan,
		BillingStatus:       t.BillingStatus,
		TrialEndsAt:         t.TrialEndsAt,
		PeriodEndsAt:        t.PeriodEndsAt,
		SystemPrompt:        t.SystemPrompt,
		QualificationPrompt: t.QualificationPrompt,
		KnowledgeText:       t.KnowledgeText,
		ContactEmail:        t.ContactEmail,
		Theme:               t.Theme,
		ShowBranding:        t.ShowBranding,
		LocaleAuto:          t.LocaleAuto,
		ShowHeaderIcon:      t.ShowHeaderIcon,
		Heartbeats:          t.Heartbeats,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
