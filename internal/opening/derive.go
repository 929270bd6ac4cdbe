package opening

import (
	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/oracle"
)

// UnknownMove is emitted where no legal move connects two stored positions.
// It keeps exports total: a broken legacy transition degrades to a marker
// instead of failing the whole write.
const UnknownMove = "?"

// deriveMove brute-forces the move connecting sourceFull to targetKey by
// trying every legal move and comparing identity keys. Only legacy edges
// that never recorded their move need this.
func deriveMove(o oracle.Oracle, sourceFull, targetKey string) (oracle.LegalMove, bool) {
	want := fen.IdentityKey(targetKey)
	moves, err := o.LegalMoves(sourceFull)
	if err != nil {
		return oracle.LegalMove{}, false
	}
	for _, m := range moves {
		if fen.IdentityKey(m.ResultFEN) == want {
			return m, true
		}
	}
	return oracle.LegalMove{}, false
}
