package track

import "github.com/jengzang/trackmap-go/internal/models"

// ValidateOrder checks that timestamps never decrease. Equal timestamps are allowed.
func ValidateOrder(fixes []models.Fix) error {
	for i := 1; i < len(fixes); i++ {
		if fixes[i].Timestamp.Before(fixes[i-1].Timestamp) {
			return &OrderError{
				Index:    i,
				Previous: fixes[i-1].Timestamp,
				Current:  fixes[i].Timestamp,
			}
		}
	}
	return nil
}
