package models

// Choice — пара value/label для select'ов в шаблонах.
type Choice struct {
	Value string
	Label string
}

func hasChoice(list []Choice, v string) bool {
	for _, c := range list {
		if c.Value == v {
			return true
		}
	}
	return false
}

func choiceLabel(list []Choice, v string) string {
	for _, c := range list {
		if c.Value == v {
			return c.Label
		}
	}
	return v
}

// ChoiceValues собирает значения для тега oneof валидатора.
func ChoiceValues(list []Choice) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Value)
	}
	return out
}
