// Package staticdata holds the embedded sample portfolio that reports fall
// back to when the live store is unavailable.
package staticdata

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/segyhp/loan-reports/internal/domain"
)

//go:embed dataset.yaml
var raw []byte

// Dataset is the full set of raw entity rows, shaped like the store tables.
type Dataset struct {
	Disbursements []domain.Disbursement    `yaml:"disbursements"`
	Repayments    []domain.Repayment       `yaml:"repayments"`
	Schedules     []domain.PaymentSchedule `yaml:"payment_schedule"`
	Borrowers     []domain.Borrower        `yaml:"borrowers"`
	Applications  []domain.Application     `yaml:"applications"`
}

var (
	once    sync.Once
	loaded  Dataset
	loadErr error
)

// Load decodes the embedded dataset on first use and returns a copy the
// caller may mutate freely.
func Load() (Dataset, error) {
	once.Do(func() {
		loaded, loadErr = Parse(raw)
	})
	if loadErr != nil {
		return Dataset{}, loadErr
	}
	return loaded.Clone(), nil
}

// MustLoad is Load for callers that treat a broken embed as a programming error.
func MustLoad() Dataset {
	ds, err := Load()
	if err != nil {
		panic(err)
	}
	return ds
}

// Parse decodes a dataset document.
func Parse(doc []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(doc, &ds); err != nil {
		return Dataset{}, fmt.Errorf("staticdata: decode dataset: %w", err)
	}
	return ds, nil
}

// Clone copies the slices. Pointer fields are shared; rows are never
// modified through them.
func (ds Dataset) Clone() Dataset {
	return Dataset{
		Disbursements: append([]domain.Disbursement(nil), ds.Disbursements...),
		Repayments:    append([]domain.Repayment(nil), ds.Repayments...),
		Schedules:     append([]domain.PaymentSchedule(nil), ds.Schedules...),
		Borrowers:     append([]domain.Borrower(nil), ds.Borrowers...),
		Applications:  append([]domain.Application(nil), ds.Applications...),
	}
}
