package merge_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/merge"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		msg      string
		incoming string
		existing string
		res      string
		changed  bool
	}{
		{"empty incoming", "", "a|b", "a|b", false},
		{"empty existing", "a", "", "a", true},
		{"both empty", "", "", "", false},
		{"union", "a|b", "b|c", "a|b|c", true},
		{"reverse union", "b|c", "a|b", "a|b|c", true},
		{"already there", "a", "a|b", "a|b", false},
		{"incoming casing wins", "A", "a|c", "A|c", true},
		{"sorts existing", "a", "b|a", "a|b", true},
		{"blank tokens dropped", "c||", "a|b", "a|b|c", true},
	}

	for _, v := range tests {
		res, changed := merge.Merge(v.incoming, v.existing)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.changed, changed, v.msg)
	}
}

func TestMergeCommutative(t *testing.T) {
	res1, _ := merge.Merge("a|b", "b|c")
	res2, _ := merge.Merge("b|c", "a|b")
	assert.Equal(t, res1, res2)
	assert.Equal(t, []string{"a", "b", "c"}, strings.Split(res1, "|"))
}

func TestMergeClinicalSignificance(t *testing.T) {
	tests := []struct {
		msg      string
		incoming string
		existing string
		res      string
		changed  bool
	}{
		{"empty incoming", "", "benign", "benign", false},
		{"empty existing", "benign", "", "benign", true},
		{"pathogenic first", "benign", "pathogenic", "pathogenic|benign", true},
		{"pathogenic first reversed", "pathogenic", "benign",
			"pathogenic|benign", true},
		{"not changed", "benign", "pathogenic|benign", "pathogenic|benign", false},
		{"existing slashes", "risk factor", "Pathogenic/Likely pathogenic",
			"Pathogenic|Likely pathogenic|risk factor", true},
		{"incoming commas", "Pathogenic, risk factor", "benign/likely benign",
			"Pathogenic|risk factor|benign|likely benign", true},
		{"not provided last", "other", "not provided",
			"other|not provided", true},
		{"unknown tokens do not collapse", "zeta", "alpha|not provided",
			"alpha|zeta|not provided", true},
	}

	for _, v := range tests {
		res, changed := merge.MergeClinicalSignificance(v.incoming, v.existing)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.changed, changed, v.msg)
	}
}

func TestUnknownSignificance(t *testing.T) {
	res := merge.UnknownSignificance("Pathogenic/zeta, benign|omega")
	assert.Equal(t, []string{"zeta", "omega"}, res)
	assert.Empty(t, merge.UnknownSignificance("likely benign|not provided"))
}

func TestNewerDate(t *testing.T) {
	d1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		msg      string
		incoming *time.Time
		existing *time.Time
		res      *time.Time
	}{
		{"nil incoming", nil, &d1, &d1},
		{"nil existing", &d1, nil, &d1},
		{"newer incoming", &d2, &d1, &d2},
		{"older incoming", &d1, &d2, &d2},
		{"both nil", nil, nil, nil},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, merge.NewerDate(v.incoming, v.existing), v.msg)
	}
}

func TestTrimNotes(t *testing.T) {
	short := "short notes"
	assert.Equal(t, short, merge.TrimNotes(short, merge.NotesLimit))

	long := strings.Repeat("a", 4000)
	res := merge.TrimNotes(long, merge.NotesLimit)
	assert.Len(t, res, merge.NotesLimit+4)
	assert.True(t, strings.HasSuffix(res, "a ..."))

	res = merge.TrimNotes(strings.Repeat("é", 3), 3)
	assert.Equal(t, "é ...", res)
}

func TestQCTraitName(t *testing.T) {
	tests := []struct {
		msg     string
		trait   string
		res     string
		changed bool
	}{
		{
			msg:     "redundant not provided",
			trait:   "Brugada syndrome 3 [RCV000019201]|not provided [RCV000058286]|Brugada syndrome [RCV000058286]",
			res:     "Brugada syndrome 3 [RCV000019201]|Brugada syndrome [RCV000058286]",
			changed: true,
		},
		{
			msg:     "not provided with own rcv",
			trait:   "not provided [RCV1]|Brugada [RCV2]",
			res:     "not provided [RCV1]|Brugada [RCV2]",
			changed: false,
		},
		{
			msg:     "one family",
			trait:   "Long QT (1 family) [RCV1]",
			res:     "Long QT [RCV1]",
			changed: true,
		},
		{
			msg:     "one patient",
			trait:   "Long QT (1 patient) [RCV1]|Other [RCV2]",
			res:     "Long QT [RCV1]|Other [RCV2]",
			changed: true,
		},
		{
			msg:     "single not provided",
			trait:   "not provided [RCV1]",
			res:     "not provided [RCV1]",
			changed: false,
		},
	}

	for _, v := range tests {
		res, changed := merge.QCTraitName(v.trait)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.changed, changed, v.msg)
	}
}

func TestDedupConditions(t *testing.T) {
	res, changed := merge.DedupConditions("b [RCV1]|A [RCV2]|B [RCV1]")
	assert.True(t, changed)
	assert.Equal(t, "A [RCV2]|b [RCV1]", res)

	res, changed = merge.DedupConditions("b [RCV1]|A [RCV2]")
	assert.False(t, changed)
	assert.Equal(t, "b [RCV1]|A [RCV2]", res)
}

func TestConditions(t *testing.T) {
	res := merge.Conditions("Brugada syndrome 3 [RCV1]|Long QT [RCV2]||not provided")
	assert.Equal(t, []string{"Brugada syndrome 3", "Long QT", "not provided"}, res)
}
