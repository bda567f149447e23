package match

import "sort"

// rankTemplate 按置信度降序（稳定）排序，保留超过阈值的结果
// 没有结果超过阈值时只返回最好的一个
func rankTemplate(scored []Result, threshold float64) []Result {
	if len(scored) == 0 {
		return nil
	}
	sorted := append([]Result(nil), scored...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	var kept []Result
	for _, r := range sorted {
		if r.Score > threshold {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return sorted[:1]
	}
	return kept
}

// rankFeature 按好匹配数升序（稳定）排序，保留达到 MinGoodMatches 的结果
// 没有达标时返回排序后的最后一个，即匹配数最多的物品
func rankFeature(scored []Result) []Result {
	if len(scored) == 0 {
		return nil
	}
	sorted := append([]Result(nil), scored...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})

	var kept []Result
	for _, r := range sorted {
		if r.Score >= MinGoodMatches {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return sorted[len(sorted)-1:]
	}
	return kept
}

// limit 截断结果
// 升序结果保留尾部，使截断后仍是匹配数最多的那些
func limit(results []Result, n int, ascending bool) []Result {
	if n <= 0 || len(results) <= n {
		return results
	}
	if ascending {
		return results[len(results)-n:]
	}
	return results[:n]
}
