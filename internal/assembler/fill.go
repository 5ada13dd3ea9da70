package assembler

import (
	"math"
	"sort"
)

// fillUp spends leftover money: first more units of cheap lines, then new
// cheap products the earlier states did not include.
func fillUp(lines []line, pool []candidate, total float64, rep *Report) []line {
	remaining := total - sum(lines)
	if remaining <= FillUpSlack {
		return lines
	}

	cheap := CheapShare * total
	for i := range lines {
		if remaining <= FillUpSlack {
			break
		}
		price := lines[i].item.UnitPrice
		if price > cheap {
			continue
		}
		add := min(FillUpMaxUnits, int(math.Floor(remaining/price+Epsilon)))
		if add <= 0 {
			continue
		}
		lines[i].item.Quantity += add
		remaining -= float64(add) * price
		rep.FillUpUnits += add
	}

	included := make(map[string]bool, len(lines))
	for _, l := range lines {
		included[l.item.ProductID] = true
	}
	extras := make([]candidate, 0, len(pool))
	for _, c := range pool {
		if !included[c.product.ID] && usablePrice(c.product.Price) {
			extras = append(extras, c)
		}
	}
	sort.SliceStable(extras, func(i, j int) bool {
		a, b := extras[i].product, extras[j].product
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.ID < b.ID
	})

	ceiling := FillUpShare * total
	for _, c := range extras {
		if remaining < FillUpSlack || total-remaining >= FillUpTarget*total {
			break
		}
		p := c.product
		if p.Price > remaining || p.Price > ceiling || included[p.ID] {
			continue
		}
		units := min(FillUpMaxUnits, int(math.Floor(remaining/p.Price+Epsilon)))
		if units <= 0 {
			continue
		}
		lines = append(lines, line{item: lineItem(p, units, c.ranked), ranked: c.ranked})
		included[p.ID] = true
		remaining -= float64(units) * p.Price
		rep.FillUpUnits += units
		rep.FillUpItems++
	}
	return lines
}

// correct brings the total back under budget, walking lines from the most
// expensive down. Ordinary lines are shrunk when that alone fixes the
// overrun and evicted otherwise; ranked lines keep the largest quantity
// that fits and are only evicted when nothing else is left to remove.
func correct(lines []line, total float64, rep *Report) []line {
	rep.Corrected = true
	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return lines[order[i]].item.Total() > lines[order[j]].item.Total()
	})

	evicted := make([]bool, len(lines))
	current := sum(lines)

	shrinkOrDrop := func(idx int, allowDrop bool) {
		l := &lines[idx].item
		others := current - l.Total()
		fit := int(math.Floor((total-others)/l.UnitPrice + Epsilon))
		switch {
		case fit >= l.Quantity:
			return
		case fit >= 1:
			current = others + float64(fit)*l.UnitPrice
			l.Quantity = fit
			rep.Shrunk++
		case allowDrop:
			current = others
			evicted[idx] = true
			rep.Evicted++
		case l.Quantity > 1:
			current = others + l.UnitPrice
			l.Quantity = 1
			rep.Shrunk++
		}
	}

	for _, idx := range order {
		if current <= total+Epsilon {
			break
		}
		shrinkOrDrop(idx, !lines[idx].ranked)
	}
	for _, idx := range order {
		if current <= total+Epsilon {
			break
		}
		if evicted[idx] {
			continue
		}
		shrinkOrDrop(idx, true)
	}

	out := make([]line, 0, len(lines))
	for i, l := range lines {
		if !evicted[i] {
			out = append(out, l)
		}
	}
	return out
}
