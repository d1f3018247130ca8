package mana

import (
	"fmt"
)

// GenericPayment marks a convoking creature that paid one generic mana.
const GenericPayment Color = ""

// PaymentPlan records exactly which mana leaves the pool and what each
// convoking creature paid for.
type PaymentPlan struct {
	FromPool map[Color]int
	// Convoke is parallel to the convoke input; each entry is the color the
	// creature paid, or GenericPayment.
	Convoke []Color
	XValue  int
}

// PaymentResult represents the result of a payment attempt.
type PaymentResult struct {
	Success bool
	Plan    *PaymentPlan
	Reason  string
}

// CalculatePayment builds a deterministic payment plan for cost out of pool,
// optionally helped by convoking creatures (each described by its colors).
// Colored symbols are paid from the pool first, then from convokers of that
// color; generic is paid from colorless, then WUBRG, then remaining convokers.
// Every convoker must end up contributing.
func CalculatePayment(cost *ManaCost, pool *ManaPool, xValue int, convoke [][]Color) *PaymentResult {
	plan := &PaymentPlan{FromPool: make(map[Color]int), Convoke: make([]Color, len(convoke)), XValue: xValue}
	if cost == nil {
		cost = &ManaCost{}
	}
	if xValue < 0 {
		return &PaymentResult{Reason: "x value cannot be negative"}
	}
	if cost.X == 0 && xValue != 0 {
		return &PaymentResult{Reason: "cost has no {X}"}
	}

	testPool := pool.Copy()
	used := make([]bool, len(convoke))

	for _, c := range Colors {
		need := cost.Of(c)
		if need == 0 {
			continue
		}
		fromPool := min(need, testPool.Get(c))
		testPool.Spend(c, fromPool)
		plan.FromPool[c] += fromPool
		need -= fromPool

		for i := 0; need > 0 && i < len(convoke); i++ {
			if used[i] || !hasColor(convoke[i], c) || c == Colorless {
				continue
			}
			used[i] = true
			plan.Convoke[i] = c
			need--
		}
		if need > 0 {
			return &PaymentResult{Reason: fmt.Sprintf("insufficient %s mana (need %d more)", c, need)}
		}
	}

	generic := cost.Generic + cost.X*xValue
	order := []Color{Colorless, White, Blue, Black, Red, Green}
	for _, c := range order {
		if generic == 0 {
			break
		}
		spend := min(generic, testPool.Get(c))
		testPool.Spend(c, spend)
		plan.FromPool[c] += spend
		generic -= spend
	}
	for i := 0; generic > 0 && i < len(convoke); i++ {
		if used[i] {
			continue
		}
		used[i] = true
		plan.Convoke[i] = GenericPayment
		generic--
	}
	if generic > 0 {
		return &PaymentResult{Reason: fmt.Sprintf("insufficient mana for generic cost (need %d more)", generic)}
	}

	for i := range convoke {
		if !used[i] {
			return &PaymentResult{Reason: fmt.Sprintf("convoking creature %d would pay nothing", i)}
		}
	}

	return &PaymentResult{Success: true, Plan: plan}
}

// ExecutePayment removes the planned mana from the pool.
func ExecutePayment(plan *PaymentPlan, pool *ManaPool) bool {
	if plan == nil {
		return true
	}
	for _, c := range Colors {
		if pool.Get(c) < plan.FromPool[c] {
			return false
		}
	}
	for _, c := range Colors {
		pool.Spend(c, plan.FromPool[c])
	}
	return true
}

func hasColor(colors []Color, c Color) bool {
	for _, have := range colors {
		if have == c {
			return true
		}
	}
	return false
}
