package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/pricing"
	"weddinghall/internal/domain/quote"
)

var errNoCatalog = errors.New("a catalog file is required (--catalog or QUOTECALC_CATALOG)")

func loadCatalog(v *viper.Viper) (*catalog.Catalog, error) {
	path := strings.TrimSpace(v.GetString("catalog"))
	if path == "" {
		return nil, errNoCatalog
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.BuildJSON(data)
}

func mealPolicy(v *viper.Viper) pricing.MealPolicy {
	if excluded := v.GetStringSlice("exclude-category"); len(excluded) > 0 {
		return pricing.NewMealPolicy(excluded...)
	}
	return pricing.DefaultMealPolicy()
}

// parseMealFlags reads "id=count" pairs. The count is passed through
// unparsed so it follows the same rules as the API.
func parseMealFlags(pairs []string) (map[int64]quote.CountInput, error) {
	counts := make(map[int64]quote.CountInput, len(pairs))
	for _, pair := range pairs {
		id, count, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --meal %q: want id=count", pair)
		}
		mealID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --meal %q: bad meal id", pair)
		}
		counts[mealID] = quote.CountInput(strings.TrimSpace(count))
	}
	return counts, nil
}

func parseOptionFlags(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, raw := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --option %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
