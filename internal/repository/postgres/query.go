package postgres

import (
	"strconv"
	"strings"

	"designator/internal/repository"
)

type scanner interface {
	Scan(dest ...any) error
}

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

// arg registers v and returns its placeholder.
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *where) and(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// orderBy resolves a client sort key against a whitelist of columns. tie keeps pages stable.
func orderBy(columns map[string]string, key string, order repository.SortOrder, fallback, tie string) string {
	col, ok := columns[key]
	if !ok {
		col = fallback
	}
	dir := "DESC"
	if order == repository.SortAsc {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + " NULLS LAST, " + tie + " " + dir
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
