package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBundle() Bundle {
	return Bundle{
		ResourceType: "Bundle",
		Type:         "collection",
		Entry: []Entry{
			{Resource: Resource{ResourceType: TypeCondition, Code: &Text{Text: "Type 2 diabetes"}}},
			{Resource: Resource{ResourceType: TypeMedicationStatement, MedicationCodeableConcept: &Text{Text: "Metformin 500mg"}}},
			{Resource: Resource{ResourceType: TypeProcedure, Code: &Text{Text: "Appendectomy 2019"}}},
			{Resource: Resource{ResourceType: TypeObservation, Code: &Text{Text: "HbA1c"}, ValueString: "8.2%"}},
		},
	}
}

func TestBulletsPreservesOrderAndTypes(t *testing.T) {
	t.Parallel()

	got := sampleBundle().Bullets()
	want := []string{
		"Type 2 diabetes",
		"Metformin 500mg",
		"Appendectomy 2019",
		"HbA1c — 8.2%",
	}
	assert.Equal(t, want, got)
}

func TestBulletsSkipsEmptyEntries(t *testing.T) {
	t.Parallel()

	b := Bundle{
		ResourceType: "Bundle",
		Entry: []Entry{
			{Resource: Resource{ResourceType: TypeCondition}},
			{Resource: Resource{ResourceType: TypeObservation, ValueString: "120/80"}},
			{Resource: Resource{ResourceType: "Unknown", Code: &Text{Text: "ignored"}}},
		},
	}
	assert.Equal(t, []string{"120/80"}, b.Bullets())
}

func TestValidateAcceptsWellFormedBundle(t *testing.T) {
	t.Parallel()

	raw, err := ToPayload(sampleBundle())
	require.NoError(t, err)
	require.NoError(t, Validate(raw))
}

func TestValidateRejectsWrongShape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"missing entry", map[string]any{"resourceType": "Bundle"}},
		{"wrong root type", map[string]any{"resourceType": "Patient", "entry": []any{}}},
		{"entry without resource", map[string]any{
			"resourceType": "Bundle",
			"entry":        []any{map[string]any{}},
		}},
		{"unknown resource type", map[string]any{
			"resourceType": "Bundle",
			"entry": []any{map[string]any{
				"resource": map[string]any{"resourceType": "Specimen"},
			}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, Validate(tc.raw))
		})
	}
}

func TestFromPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	orig := sampleBundle()
	raw, err := ToPayload(orig)
	require.NoError(t, err)

	back, err := FromPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, orig, back)
}

func TestFromPayloadRejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := FromPayload(map[string]any{"resourceType": "Bundle"})
	require.Error(t, err)
}

func TestBundleJSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(New())
	require.NoError(t, err)
	assert.JSONEq(t, `{"resourceType":"Bundle","type":"collection","entry":[]}`, string(data))
}
