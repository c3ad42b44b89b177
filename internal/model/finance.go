package model

import "time"

// Transaction, goal, bill and alert types below are declarations only.
// Ledger arithmetic, recurrence expansion and dashboard aggregation are
// handled outside this service.

// TransactionType classifies a transaction.
type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

// PaymentMethod identifies how a transaction was paid.
type PaymentMethod string

const (
	PaymentDebit  PaymentMethod = "debit"
	PaymentCredit PaymentMethod = "credit"
	PaymentCash   PaymentMethod = "cash"
	PaymentPix    PaymentMethod = "pix"
	PaymentBoleto PaymentMethod = "boleto"
)

// RecurrenceFrequency is the unit of a recurrence rule.
type RecurrenceFrequency string

const (
	RecurrenceDaily   RecurrenceFrequency = "daily"
	RecurrenceWeekly  RecurrenceFrequency = "weekly"
	RecurrenceMonthly RecurrenceFrequency = "monthly"
	RecurrenceYearly  RecurrenceFrequency = "yearly"
)

// RecurrenceRule describes a repeating schedule.
type RecurrenceRule struct {
	Frequency   RecurrenceFrequency `json:"frequency"`
	Interval    int                 `json:"interval"`
	EndDate     *time.Time          `json:"end_date,omitempty"`
	Occurrences *int                `json:"occurrences,omitempty"`
}

// Transaction is a single ledger entry in a wallet.
type Transaction struct {
	ID                  string          `json:"id"`
	WalletID            string          `json:"wallet_id"`
	CategoryID          string          `json:"category_id"`
	Type                TransactionType `json:"type"`
	Amount              float64         `json:"amount"`
	Date                time.Time       `json:"date"`
	Description         string          `json:"description"`
	PaymentMethod       PaymentMethod   `json:"payment_method,omitempty"`
	Installments        *int            `json:"installments,omitempty"`
	InstallmentNumber   *int            `json:"installment_number,omitempty"`
	ParentTransactionID *string         `json:"parent_transaction_id,omitempty"`
	IsScheduled         bool            `json:"is_scheduled"`
	RecurrenceRule      *RecurrenceRule `json:"recurrence_rule,omitempty"`
	DestinationWalletID *string         `json:"destination_wallet_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// DashboardSummary aggregates a user's position for the overview screen.
type DashboardSummary struct {
	TotalBalance    float64 `json:"total_balance"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	PendingBills    int     `json:"pending_bills"`
	ActiveGoals     int     `json:"active_goals"`
	UnreadAlerts    int     `json:"unread_alerts"`
}

// Goal is a savings target.
type Goal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Deadline      time.Time `json:"deadline"`
	IsCompleted   bool      `json:"is_completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Progress returns how much of the target has been saved, in [0, 1].
func (g *Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount
	if p > 1 {
		return 1
	}
	return p
}

// Bill is a payable with a due date.
type Bill struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	WalletID       *string         `json:"wallet_id,omitempty"`
	Name           string          `json:"name"`
	Amount         float64         `json:"amount"`
	DueDate        time.Time       `json:"due_date"`
	IsPaid         bool            `json:"is_paid"`
	CategoryID     *string         `json:"category_id,omitempty"`
	IsRecurring    bool            `json:"is_recurring"`
	RecurrenceRule *RecurrenceRule `json:"recurrence_rule,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsOverdue reports whether the bill is unpaid past its due date.
func (b *Bill) IsOverdue(now time.Time) bool {
	return !b.IsPaid && now.After(b.DueDate)
}

// AlertSeverity grades an alert.
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// Alert is a user-facing notification.
type Alert struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Type            string        `json:"type"`
	Severity        AlertSeverity `json:"severity"`
	Title           string        `json:"title"`
	Message         string        `json:"message"`
	IsRead          bool          `json:"is_read"`
	RelatedEntityID *string       `json:"related_entity_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
