package oracle

import "github.com/freeeve/pgn/v3"

// Move flag values from the pgn generator.
const (
	flagEnPassant = 2
	flagCastle    = 4
)

const (
	sanFiles = "abcdefgh"
	sanRanks = "12345678"
)

// sanFor renders mv as SAN for the given position, including disambiguation
// and check/mate suffixes.
func sanFor(pos *pgn.GameState, mv pgn.Mv) string {
	if mv.Flags == flagCastle {
		var san string
		if mv.To > mv.From {
			san = "O-O"
		} else {
			san = "O-O-O"
		}
		return san + checkSuffix(pos, mv)
	}

	fromSq := int(mv.From)
	toSq := int(mv.To)
	fromFile := fromSq % 8
	fromRank := fromSq / 8
	toFile := toSq % 8
	toRank := toSq / 8

	piece := pos.PieceAt(mv.From)
	isPawn := piece == 'P' || piece == 'p'
	isCapture := pos.PieceAt(mv.To) != 0 || (isPawn && mv.Flags == flagEnPassant)

	var san string
	if isPawn {
		if isCapture {
			san = string(sanFiles[fromFile]) + "x" + string(sanFiles[toFile]) + string(sanRanks[toRank])
		} else {
			san = string(sanFiles[toFile]) + string(sanRanks[toRank])
		}
		switch mv.Promo {
		case pgn.PromoQueen:
			san += "=Q"
		case pgn.PromoRook:
			san += "=R"
		case pgn.PromoBishop:
			san += "=B"
		case pgn.PromoKnight:
			san += "=N"
		}
		return san + checkSuffix(pos, mv)
	}

	pieceChar := upper(piece)
	san = string(pieceChar)

	// Disambiguate when another piece of the same type reaches the same square.
	disambig := ""
	for _, other := range pgn.GenerateLegalMoves(pos) {
		if other.To != mv.To || other.From == mv.From {
			continue
		}
		if upper(pos.PieceAt(other.From)) != pieceChar {
			continue
		}
		otherFile := int(other.From) % 8
		otherRank := int(other.From) / 8
		if fromFile != otherFile {
			disambig = string(sanFiles[fromFile])
		} else if fromRank != otherRank {
			disambig = string(sanRanks[fromRank])
		} else {
			disambig = string(sanFiles[fromFile]) + string(sanRanks[fromRank])
		}
		break
	}
	san += disambig

	if isCapture {
		san += "x"
	}
	san += string(sanFiles[toFile]) + string(sanRanks[toRank])
	return san + checkSuffix(pos, mv)
}

// checkSuffix returns "+", "#" or "" for the position after mv.
func checkSuffix(pos *pgn.GameState, mv pgn.Mv) string {
	after := pos.Pack().Unpack()
	if after == nil {
		return ""
	}
	if err := pgn.ApplyMove(after, mv); err != nil {
		return ""
	}
	if !after.IsInCheck() {
		return ""
	}
	if len(pgn.GenerateLegalMoves(after)) == 0 {
		return "#"
	}
	return "+"
}

// uciFor renders mv in coordinate notation.
func uciFor(mv pgn.Mv) string {
	from := int(mv.From)
	to := int(mv.To)
	uci := string([]byte{
		sanFiles[from%8], sanRanks[from/8],
		sanFiles[to%8], sanRanks[to/8],
	})
	switch mv.Promo {
	case pgn.PromoQueen:
		uci += "q"
	case pgn.PromoRook:
		uci += "r"
	case pgn.PromoBishop:
		uci += "b"
	case pgn.PromoKnight:
		uci += "n"
	}
	return uci
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}
