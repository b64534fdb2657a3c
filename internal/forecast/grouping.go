package forecast

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// NormalizeDescription case-folds and trims a description, collapses inner
// whitespace and, when configured, drops punctuation and symbols.
func (e *Engine) NormalizeDescription(s string) string {
	folded := cases.Fold().String(s)
	if e.cfg.StripPunctuation {
		folded = strings.Map(func(r rune) rune {
			if unicode.IsPunct(r) || unicode.IsSymbol(r) {
				return ' '
			}
			return r
		}, folded)
	}
	return strings.Join(strings.Fields(folded), " ")
}

// Key builds the grouping key of a transaction
func (e *Engine) Key(tx models.Transaction) models.GroupKey {
	return models.GroupKey{
		Description: e.NormalizeDescription(tx.Description),
		CategoryID:  tx.CategoryID,
	}
}

// Group clusters transactions into candidate series by key. A key holding both
// income and expense members is split per type. Only series with at least two
// members are returned, each sorted by date, ordered by key then type.
func (e *Engine) Group(txs []models.Transaction) []models.TransactionGroup {
	byKey := make(map[models.GroupKey][]models.Transaction)
	for _, tx := range txs {
		key := e.Key(tx)
		byKey[key] = append(byKey[key], tx.Normalize())
	}

	var groups []models.TransactionGroup
	for key, members := range byKey {
		if len(members) < 2 {
			continue
		}
		var incomes, expenses []models.Transaction
		for _, tx := range members {
			if tx.Type == models.TransactionIncome {
				incomes = append(incomes, tx)
			} else {
				expenses = append(expenses, tx)
			}
		}
		for _, split := range []struct {
			typ models.TransactionType
			txs []models.Transaction
		}{
			{models.TransactionExpense, expenses},
			{models.TransactionIncome, incomes},
		} {
			if len(split.txs) < 2 {
				continue
			}
			sortByDate(split.txs)
			groups = append(groups, models.TransactionGroup{Key: key, Type: split.typ, Transactions: split.txs})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Key != groups[j].Key {
			return groups[i].Key.String() < groups[j].Key.String()
		}
		return groups[i].Type < groups[j].Type
	})
	return groups
}

func sortByDate(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}
