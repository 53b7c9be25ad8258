package types

import (
	"errors"
	"time"

	"github.com/marketloop/supportd/internal/database/types/enum"
)

var (
	ErrAdNotFound      = errors.New("deleted ad not found")
	ErrAppealNotFound  = errors.New("appeal not found")
	ErrNotEligible     = errors.New("ad is not eligible for appeal")
	ErrAlreadyAppealed = errors.New("ad has already been appealed")
	ErrAppealDecided   = errors.New("appeal has already been decided")
)

// DeletedAd represents an advertisement removed by moderation, eligible for
// appeal until its deadline passes.
type DeletedAd struct {
	ID             int64               `bun:",pk,autoincrement"` // Unique numeric identifier
	AdID           int64               `bun:",notnull"`          // Reference to the original advertisement
	UserID         uint64              `bun:",notnull"`          // Owner of the deleted ad
	Title          string              `bun:",notnull"`          // Ad title at deletion time
	ImageURL       string              `bun:",nullzero"`         // Thumbnail of the deleted ad
	ViolationType  string              `bun:",notnull"`          // Policy clause the ad violated
	Reason         enum.DeletionReason `bun:",notnull"`          // Why the ad was taken down
	Severity       enum.AdSeverity     `bun:",notnull"`          // How serious the violation was
	AppealStatus   enum.AppealStatus   `bun:",notnull"`          // Mirror of the appeal's status, not_appealed until one exists
	DeletedAt      time.Time           `bun:",notnull"`          // When the ad was removed
	AppealDeadline time.Time           `bun:",notnull"`          // DeletedAt plus the appeal window
}

// Appeal represents a user's request to reverse an ad deletion.
// At most one appeal exists per deleted ad.
type Appeal struct {
	ID            int64             `bun:",pk,autoincrement"` // Unique numeric identifier
	AppealNumber  string            `bun:",notnull,unique"`   // Human-readable reference, immutable once assigned
	DeletedAdID   int64             `bun:",notnull,unique"`   // The deleted ad being appealed (1:1)
	Reason        string            `bun:",notnull"`          // Short summary of the appeal grounds
	Explanation   string            `bun:",notnull"`          // Detailed argument for reversal
	Evidence      []string          `bun:",type:jsonb"`       // Ordered attachment references
	Status        enum.AppealStatus `bun:",notnull"`          // Current review state
	AdminResponse string            `bun:",nullzero"`         // Reviewer's note, set at decision time
	CreatedAt     time.Time         `bun:",notnull"`          // When the appeal was submitted
	ReviewedAt    time.Time         `bun:",nullzero"`         // When the appeal was decided
}
