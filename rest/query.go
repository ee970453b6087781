package rest

import (
	"net/url"
	"strconv"

	"supplyflow/validation"
)

// SearchParams 分页查询参数
//
// 与后端集合端点的查询约定一致：页码从 0 开始，sort 形如
// "name,asc"，search 为可选的模糊过滤词。
type SearchParams struct {
	Page   int    `json:"page"`
	Size   int    `json:"size"`
	Sort   string `json:"sort"`
	Search string `json:"search"`
}

// DefaultSearchParams 返回查询参数默认值
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Page:   0,
		Size:   10,
		Sort:   "name,asc",
		Search: "",
	}
}

// Patch 查询参数的部分更新
//
// nil 字段表示保留原值；一次浅合并即产生完整的新查询，
// 不存在部分非法的中间态。
type Patch struct {
	Page   *int
	Size   *int
	Sort   *string
	Search *string
}

// 指针字段构造辅助
func IntPtr(v int) *int          { return &v }
func StringPtr(v string) *string { return &v }

// Merge 浅合并补丁并返回新查询
//
// 不变式：搜索词发生变化时页码归零，避免停留在过滤后已不存在的页。
func (p SearchParams) Merge(patch Patch) SearchParams {
	merged := p

	if patch.Page != nil {
		merged.Page = *patch.Page
	}
	if patch.Size != nil {
		merged.Size = *patch.Size
	}
	if patch.Sort != nil {
		merged.Sort = *patch.Sort
	}
	if patch.Search != nil {
		merged.Search = *patch.Search
	}

	if merged.Search != p.Search {
		merged.Page = 0
	}

	return merged
}

// Validate 校验查询参数
func (p SearchParams) Validate() error {
	return validation.ValidatePageParams(p.Page, p.Size)
}

// Values 编码为 URL 查询参数
func (p SearchParams) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.Page))
	values.Set("size", strconv.Itoa(p.Size))
	if p.Sort != "" {
		values.Set("sort", p.Sort)
	}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	return values
}

// CacheKey 返回可作为缓存键片段的规范化表示
func (p SearchParams) CacheKey() string {
	return p.Values().Encode()
}
