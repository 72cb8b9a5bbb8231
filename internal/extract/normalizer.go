package extract

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Korixo/demolition-tracker/internal/entity"
)

// UnknownBuilding is the sentinel for notices whose building name could not
// be read from the image.
const UnknownBuilding = "Unknown Building"

// Normalizer fills required candidate fields so that everything reaching a
// reviewer is well formed. Normalize is total: it never fails.
type Normalizer struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger, now: time.Now}
}

// Normalize defaults the building name to the Unknown Building sentinel and
// a missing demolition date to the current instant. The date default is a
// "needs user correction" placeholder surfaced for editing before confirm,
// not a silent accept. Optional fields collapse to absent when blank.
func (n *Normalizer) Normalize(c entity.CandidateRecord) entity.CandidateRecord {
	c.BuildingName = strings.TrimSpace(c.BuildingName)
	if c.BuildingName == "" {
		c.BuildingName = UnknownBuilding
		n.logger.Debug("building name not extracted, using sentinel")
	}
	if c.DemolitionDate.IsZero() {
		c.DemolitionDate = n.now().UTC()
		n.logger.Debug("demolition date not extracted, defaulting to now")
	}
	c.OwnerName = presentOrAbsent(c.OwnerName)
	c.Location = presentOrAbsent(c.Location)
	return c
}

func presentOrAbsent(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
