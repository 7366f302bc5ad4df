package admission

import "time"

// State is the admission state of a pass, reconstructed from its ordered
// visit rows. The scan transition switches exhaustively over the variant
// rather than counting rows ad hoc: Unseen admits an entry, Entered admits
// an exit bounded by the stored expiry, Exited is terminal, and Invalid
// covers any row shape the protocol can never produce.
type State interface{ isState() }

type (
	// Unseen: no rows yet; the next scan is the entry.
	Unseen struct{}
	// Entered: exactly one Entry row; the next scan is the exit, bounded
	// by the expiry durably recorded at entry time.
	Entered struct {
		Entry     *VisitRecord
		ExpiresAt time.Time
	}
	// Exited: the pass is fully consumed.
	Exited struct{}
	// Invalid: the rows are in a shape the protocol cannot reach (an
	// Entry-less Exit, duplicates, an Entry without stored expiry).
	Invalid struct{}
)

func (Unseen) isState()  {}
func (Entered) isState() {}
func (Exited) isState()  {}
func (Invalid) isState() {}

// StateOf folds rows (ordered by timestamp ascending) into the state
// variant.
func StateOf(records []*VisitRecord) State {
	switch len(records) {
	case 0:
		return Unseen{}
	case 1:
		entry := records[0]
		if entry.Kind != KindEntry || entry.ExpiresAt == nil {
			return Invalid{}
		}
		return Entered{Entry: entry, ExpiresAt: *entry.ExpiresAt}
	case 2:
		if records[0].Kind == KindEntry && records[1].Kind == KindExit {
			return Exited{}
		}
		return Invalid{}
	default:
		return Invalid{}
	}
}
