// Package netting computes the minimal set of pairwise transfers that settles
// a group's net balances. It is a pure in-memory engine; callers feed it
// ledger rows and persist the result.
package netting

// Transfer is one simplified debt: FromMemberID pays ToMemberID Amount minor
// units. Amount is always strictly positive.
type Transfer struct {
	FromMemberID string
	ToMemberID   string
	Amount       int64
}

// BalanceSheet accumulates signed net balances per member in minor units.
// Positive means the member is owed money, negative means they owe. Member
// order is the order of first Add, which makes Simplify deterministic for a
// ledger read in creation order.
type BalanceSheet struct {
	order    []string
	balances map[string]int64
}

func NewBalanceSheet() *BalanceSheet {
	return &BalanceSheet{balances: make(map[string]int64)}
}

// Add credits (positive delta) or debits (negative delta) a member.
func (s *BalanceSheet) Add(memberID string, delta int64) {
	if _, ok := s.balances[memberID]; !ok {
		s.order = append(s.order, memberID)
	}
	s.balances[memberID] += delta
}

// Balance returns a member's current net balance.
func (s *BalanceSheet) Balance(memberID string) int64 {
	return s.balances[memberID]
}

// Balances returns every member's net balance in first-added order, including
// members whose balance nets to zero.
func (s *BalanceSheet) Balances() []Transferee {
	out := make([]Transferee, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Transferee{MemberID: id, Balance: s.balances[id]})
	}
	return out
}

// Transferee is a member with their signed net balance.
type Transferee struct {
	MemberID string
	Balance  int64
}

// Simplify reduces the sheet's balances to a minimal list of pairwise
// transfers. Each round matches the largest creditor with the largest debtor
// and moves min(credit, debt) between them, which zeroes at least one of the
// two, so at most n-1 transfers are produced for n members. Ties go to the
// earliest-added member. The sheet itself is not modified.
func (s *BalanceSheet) Simplify() []Transfer {
	remaining := make(map[string]int64, len(s.balances))
	active := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if b := s.balances[id]; b != 0 {
			remaining[id] = b
			active = append(active, id)
		}
	}

	var transfers []Transfer
	for len(active) > 1 {
		var creditor, debtor string
		var maxCredit, maxDebt int64
		for _, id := range active {
			b := remaining[id]
			if b > maxCredit {
				maxCredit = b
				creditor = id
			}
			if b < maxDebt {
				maxDebt = b
				debtor = id
			}
		}
		if creditor == "" || debtor == "" {
			// Unbalanced input (sum != 0); nothing left to match.
			break
		}

		amount := min(maxCredit, -maxDebt)
		transfers = append(transfers, Transfer{
			FromMemberID: debtor,
			ToMemberID:   creditor,
			Amount:       amount,
		})

		remaining[creditor] -= amount
		remaining[debtor] += amount

		next := active[:0]
		for _, id := range active {
			if remaining[id] != 0 {
				next = append(next, id)
			}
		}
		active = next
	}

	return transfers
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
