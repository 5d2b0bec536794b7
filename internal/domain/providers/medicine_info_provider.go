package providers

import (
	"context"
	"errors"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

// ErrMedicineInfoUnauthorized is returned when the provider rejects our
// credentials. Callers stop calling the provider for the process lifetime.
var ErrMedicineInfoUnauthorized = errors.New("medicine info provider unauthorized")

// MedicineInfoProvider generates a description for a medicine name.
type MedicineInfoProvider interface {
	DescribeMedicine(ctx context.Context, name string) (*entities.MedicineInfo, error)
}
