package tabledata

import (
	"encoding/json"
	"testing"

	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) map[string]interface{} {
	t.Helper()
	raw := make(map[string]interface{})
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestNormalizeIdempotent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: `{}`},
		{
			name: "flat",
			doc: `{"totals":{"a":17},"visibleTotals":{"a":2},"holds":{"a":true},
				"rolls":{"a":[{"die":20,"result":15,"public":false},{"die":4,"result":2,"public":true}]},
				"phase":"betting","currentPlayer":"b","playerHeat":{"a":12},"usedSkills":{"a":{"hunch":true}}}`,
		},
		{
			name: "grouped",
			doc: `{"coreState":{"totals":{"a":17},"phase":"cut","currentPlayer":"a"},
				"skillState":{"goadBackfire":{"b":{"mustRoll":true,"goadedBy":"a","canPayToResist":true,"resistCost":5}}},
				"cutState":{"theCutPlayer":"a","theCutUsed":false},"sideBetState":{"sideBetRound":2}}`,
		},
		{
			name: "malformed",
			doc: `{"totals":[1,2],"holds":"yes","rolls":{"a":[{"die":7,"result":3},{"die":6,"result":99},"x"]},
				"phase":"intermission","gameMode":"chess","heatDC":-4,"sideBetRound":9,
				"pendingBumpRetaliation":{"attackerId":"a","targetId":"a"},"hunchRolls":{"a":{"20":44,"x":3}},
				"usedDice":{"a":[2,2,4,"6"]},"duel":{"participants":["a",1]}}`,
		},
		{
			name: "goblin",
			doc:  `{"gameMode":"goblin","rolls":{"a":[{"die":2,"result":2,"public":true}]},"usedDice":{"a":[2,20,2]},"goblinSetProgress":{"a":2}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Normalize(decode(t, tt.doc))
			doc, err := Encode(once)
			require.NoError(t, err)

			// round trip through JSON like a persisted document
			b, err := json.Marshal(doc)
			require.NoError(t, err)
			twice := Normalize(decode(t, string(b)))
			assert.Equal(t, once, twice)
		})
	}
}

func TestNormalizeFlatWins(t *testing.T) {
	td := Normalize(decode(t, `{"phase":"betting","coreState":{"phase":"cut","currentPlayer":"a"}}`))
	assert.Equal(t, types.PhaseBetting, td.Phase)
	assert.Equal(t, "a", td.CurrentPlayer)
}

func TestNormalizeClamps(t *testing.T) {
	td := Normalize(decode(t, `{"phase":"intermission","gameMode":"chess","sideBetRound":3,
		"rolls":{"a":[{"die":6,"result":9,"public":true},{"die":2,"result":1},{"die":4,"result":0}]},
		"totals":"nope","pendingBumpRetaliation":{"attackerId":"a"}}`))

	assert.Equal(t, types.PhaseOpening, td.Phase)
	assert.Equal(t, types.GameModeStandard, td.GameMode)
	assert.Equal(t, 0, td.SideBetRound)
	assert.Equal(t, []types.Roll{{Die: 6, Result: 6, Public: true}, {Die: 4, Result: 1}}, td.Rolls["a"])
	assert.Empty(t, td.Totals)
	assert.Nil(t, td.PendingBumpRetaliation)
}

func TestEncodeEmitsGroupedViews(t *testing.T) {
	td := types.NewTableData()
	td.TheCutPlayer = "a"
	td.Totals["a"] = 9

	doc, err := Encode(td)
	require.NoError(t, err)
	assert.Equal(t, "a", doc["theCutPlayer"])
	cut, ok := doc["cutState"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a", cut["theCutPlayer"])
	core, ok := doc["coreState"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"a": float64(9)}, core["totals"])
}

func TestMerge(t *testing.T) {
	current := types.NewTableData()
	current.Totals["a"] = 10
	current.Phase = types.PhaseBetting

	merged, err := Merge(current, map[string]interface{}{
		"holds":    map[string]interface{}{"a": true},
		"cutState": map[string]interface{}{"theCutUsed": true},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, merged.Totals["a"])
	assert.True(t, merged.Holds["a"])
	assert.Equal(t, types.PhaseBetting, merged.Phase)
	assert.True(t, merged.TheCutUsed)
}
