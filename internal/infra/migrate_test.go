package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSQL(t *testing.T) {
	in := `-- quotes
CREATE TABLE a (id TEXT);

-- index
CREATE INDEX i ON a (id);
`
	got := SplitSQL(StripSQLComments(in))
	assert.Equal(t, []string{"CREATE TABLE a (id TEXT)", "CREATE INDEX i ON a (id)"}, got)
}
