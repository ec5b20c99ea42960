package core

// MemberSummary is one member's economic view of a period: their own income,
// their share of every expense category, and what they have left.
type MemberSummary struct {
	Member     string
	Income     float64
	Left       float64
	ByCategory map[Category]float64
}

// PerMember splits a period's transactions across its members. Income is
// never split: it belongs to its author. A non-shared expense is borne
// entirely by its author. A shared expense is borne evenly by every member
// regardless of who logged it, so re-summing all members' shares of a shared
// transaction reconstructs its amount up to floating-point rounding.
//
// The result follows the order of members. An empty member list yields nil.
func PerMember(transactions []Transaction, members []string) []MemberSummary {
	if len(members) == 0 {
		return nil
	}

	n := float64(len(members))
	out := make([]MemberSummary, 0, len(members))

	for _, member := range members {
		ms := MemberSummary{Member: member, ByCategory: EmptyCategoryTotals()}

		for _, t := range transactions {
			if t.Category.IsIncome() {
				if t.Author == member {
					ms.Income += t.Amount
				}
				continue
			}

			ms.ByCategory[t.Category] += contribution(t, member, n)
		}

		var expenses float64
		for _, v := range ms.ByCategory {
			expenses += v
		}
		ms.Left = ms.Income - expenses

		out = append(out, ms)
	}

	return out
}

// contribution is a member's share of one expense transaction.
func contribution(t Transaction, member string, memberCount float64) float64 {
	switch {
	case t.Shared:
		return t.Amount / memberCount
	case t.Author == member:
		return t.Amount
	default:
		return 0
	}
}
