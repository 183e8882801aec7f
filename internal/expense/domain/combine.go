package domain

import (
	"strings"

	"github.com/bwmarrin/snowflake"

	"github.com/smallbiznis/tradeledger/internal/tax/calc"
)

// MergedGroup is one expense type whose lines collapse into Survivor.
type MergedGroup struct {
	Survivor ExpenseLine
	Absorbed []snowflake.ID
	// MixedRates is set when absorbed lines carried rates different from
	// the survivor's. The survivor's rates are kept.
	MixedRates bool
}

// CombinePlan is the result of grouping an invoice's lines by expense type.
type CombinePlan struct {
	Groups []MergedGroup
	Lines  []ExpenseLine
}

// Empty reports whether no group had more than one line.
func (p CombinePlan) Empty() bool {
	return len(p.Groups) == 0
}

// PlanCombine groups lines by expense type in first-seen order. Each group
// with more than one member becomes its first member with the summed base
// amount, taxes recomputed from that sum at the first member's rates and
// the non-empty remarks joined by separator. Lines must be in position
// order. A summed base above calc.MaxAmountPaise fails the whole plan.
func PlanCombine(lines []ExpenseLine, separator string) (CombinePlan, error) {
	order := make([]snowflake.ID, 0, len(lines))
	groups := make(map[snowflake.ID][]ExpenseLine, len(lines))
	for _, l := range lines {
		if _, ok := groups[l.ExpenseTypeID]; !ok {
			order = append(order, l.ExpenseTypeID)
		}
		groups[l.ExpenseTypeID] = append(groups[l.ExpenseTypeID], l)
	}

	plan := CombinePlan{Lines: make([]ExpenseLine, 0, len(order))}
	for _, typeID := range order {
		members := groups[typeID]
		if len(members) == 1 {
			plan.Lines = append(plan.Lines, members[0])
			continue
		}

		survivor := members[0]
		group := MergedGroup{Absorbed: make([]snowflake.ID, 0, len(members)-1)}
		remarks := make([]string, 0, len(members))
		if r := strings.TrimSpace(survivor.Remarks); r != "" {
			remarks = append(remarks, r)
		}

		for _, m := range members[1:] {
			merged, err := calc.AddPaise(survivor.AmountPaise, m.AmountPaise)
			if err != nil || merged > calc.MaxAmountPaise {
				return CombinePlan{}, CombinedAmountOutOfRange(typeID)
			}
			survivor.AmountPaise = merged
			if m.Rates() != survivor.Rates() {
				group.MixedRates = true
			}
			if r := strings.TrimSpace(m.Remarks); r != "" {
				remarks = append(remarks, r)
			}
			group.Absorbed = append(group.Absorbed, m.ID)
		}

		survivor.Remarks = strings.Join(remarks, separator)
		survivor.Recompute()
		group.Survivor = survivor

		plan.Groups = append(plan.Groups, group)
		plan.Lines = append(plan.Lines, survivor)
	}
	return plan, nil
}
