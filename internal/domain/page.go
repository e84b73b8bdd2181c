package domain

// Page 一页结果；Offset 为页号，Total 与窗口无关
type Page[T any] struct {
	Items  []T
	Total  int64
	Offset int
	Limit  int
}

func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

func (p Page[T]) IsFirst() bool { return p.Offset == 0 }

func (p Page[T]) IsLast() bool { return p.Offset+1 >= p.TotalPages() }

// MapPage 逐项转换，分页信息原样保留
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	items := make([]R, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return Page[R]{Items: items, Total: p.Total, Offset: p.Offset, Limit: p.Limit}
}
