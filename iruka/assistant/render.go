package assistant

import "iruka/iruka/sources/catalog"

// ItemLookup resolves catalog ids. *catalog.Catalog satisfies it.
type ItemLookup interface {
	ByID(id int) (catalog.Item, bool)
}

// Card is the compact product tile shown under an assistant message.
type Card struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

// Cards returns one card per id that exists in the catalog, in the order
// given. Unknown ids are skipped.
func Cards(lookup ItemLookup, ids []int) []Card {
	cards := make([]Card, 0, len(ids))
	for _, id := range ids {
		item, ok := lookup.ByID(id)
		if !ok {
			continue
		}
		cards = append(cards, Card{ID: item.ID, Name: item.Name, Price: item.Price, Image: item.Image})
	}
	return cards
}

type RenderedMessage struct {
	ChatMessage
	Cards []Card `json:"cards,omitempty"`
}

func Render(lookup ItemLookup, t Transcript) []RenderedMessage {
	out := make([]RenderedMessage, 0, len(t))
	for _, m := range t {
		rm := RenderedMessage{ChatMessage: m}
		if m.Role == RoleAssistant && len(m.FabricIDs) > 0 {
			rm.Cards = Cards(lookup, m.FabricIDs)
		}
		out = append(out, rm)
	}
	return out
}
