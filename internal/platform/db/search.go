package db

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// '!' works as a LIKE escape on mysql, postgres and sqlite without any string-literal quirks.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func EscapeLike(s string) string { return likeEscaper.Replace(s) }

// Contains matches rows whose col holds text as a substring, ignoring case.
// % and _ in text match literally. SQLite's LOWER only folds ASCII.
func Contains(col, text string) exp.Expression {
	return goqu.L("LOWER(?) LIKE LOWER(?) ESCAPE '!'", goqu.C(col), "%"+EscapeLike(text)+"%")
}
