package depot

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// MaxKinds is the number of component kinds a single storage can register.
const MaxKinds = 64

// Register assigns each new component kind the next free bit, in order, and
// allocates its column. Columns of kinds registered after slots exist are
// backfilled with empty entries so every column stays as long as the index.
func (sto *storage) Register(components ...Component) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	for _, c := range components {
		typ := typeOf(c)
		if typ == nil {
			return KindNotRegisteredError{}
		}
		if _, ok := sto.kinds.GetIndex(typ); ok {
			continue
		}
		bit, err := sto.kinds.Register(typ, c)
		if err != nil {
			return err
		}
		sto.columns = append(sto.columns, make([]*Cell, len(sto.masks)))
		sto.logger.Debug("registered component kind",
			zap.Stringer("kind", typ),
			zap.Int("bit", bit),
			zap.Int("backfilled", len(sto.masks)),
		)
	}
	return nil
}

func (sto *storage) BitmaskOf(c Component) (mask.Mask, bool) {
	bit, ok := sto.bitFor(typeOf(c))
	if !ok {
		return mask.Mask{}, false
	}
	var m mask.Mask
	m.Mark(bit)
	return m, true
}

func (sto *storage) Kinds() []Component {
	kinds := make([]Component, sto.kinds.Len())
	copy(kinds, sto.kinds.Items())
	return kinds
}

func (sto *storage) bitFor(typ reflect.Type) (uint32, bool) {
	if typ == nil {
		return 0, false
	}
	idx, ok := sto.kinds.GetIndex(typ)
	return uint32(idx), ok
}
