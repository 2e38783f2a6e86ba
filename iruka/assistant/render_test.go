package assistant

import (
	"reflect"
	"testing"
)

func TestCards_SkipsUnknownIDs(t *testing.T) {
	c := testCatalog(t)
	cards := Cards(c, []int{3, 99, 2, -1})
	want := []Card{
		{ID: 3, Name: "Tenun Ikat Sumba", Price: "Rp 450.000", Image: "/img/3.jpg"},
		{ID: 2, Name: "Sutra Premium Garut", Price: "Rp 275.000", Image: "/img/2.jpg"},
	}
	if !reflect.DeepEqual(cards, want) {
		t.Errorf("want %+v, got %+v", want, cards)
	}
	if got := Cards(c, nil); len(got) != 0 {
		t.Errorf("expected no cards, got %+v", got)
	}
}

func TestRender(t *testing.T) {
	c := testCatalog(t)
	tr := Transcript{
		{Role: RoleAssistant, Content: "Halo"},
		{Role: RoleUser, Content: "sutra"},
		{Role: RoleAssistant, Content: "Ini dia", FabricIDs: []int{2, 42}},
	}
	out := Render(c, tr)
	if len(out) != 3 {
		t.Fatalf("expected 3 rendered messages, got %d", len(out))
	}
	if len(out[0].Cards) != 0 || len(out[1].Cards) != 0 {
		t.Error("messages without ids should have no cards")
	}
	if len(out[2].Cards) != 1 || out[2].Cards[0].ID != 2 {
		t.Errorf("expected one card for item 2, got %+v", out[2].Cards)
	}
}
