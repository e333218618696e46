package usecase

import (
	"regexp"
	"strconv"
)

// productRefRe совпадает с маркерами "(product_id:12)" и "(product id: 12)" вместе с одним пробелом перед ними.
var productRefRe = regexp.MustCompile(`\s?\(product[_ ]id:\s*(\d+)\)`)

// ParseProductReferences удаляет из текста все маркеры товаров и возвращает id в порядке
// первого упоминания без повторов. Маркеры с id, не помещающимся в int64, удаляются и игнорируются.
func ParseProductReferences(text string) (string, []int64) {
	matches := productRefRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	seen := make(map[int64]struct{}, len(matches))
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return productRefRe.ReplaceAllString(text, ""), ids
}
