package domain

import "time"

type Verifier struct {
	ID          string
	DisplayName string
	Active      bool
	Reputation  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VerifierReport is what an off-chain verifier submits alongside approval.
type VerifierReport struct {
	QualityScore int
	Summary      string
}

type VerifierRepository interface {
	CreateVerifier(verifier *Verifier) error
	GetVerifierByID(verifierID string) (*Verifier, error)
	UpdateVerifier(verifierID string, active bool, reputation int) error
	ListVerifiers(activeOnly bool) ([]*Verifier, error)
}
