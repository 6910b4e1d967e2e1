package app

import (
	"sort"

	"github.com/John-Robertt/simdirs/internal/hints"
	"github.com/John-Robertt/simdirs/internal/simapp"
)

// GroupByBundleID 把一个设备的线索按 bundle ID 聚合为 Record（尚未 CompleteScan）。
//
// - 输出稳定排序：按 bundle ID 字典序
// - 线索应用顺序固定：先 launch map，再 process state（路径单元只写一次，因此先到先得）
func GroupByBundleID(set hints.Set, opts ...simapp.Option) []*simapp.Record {
	ids := set.BundleIDs()
	sort.Strings(ids)

	out := make([]*simapp.Record, 0, len(ids))
	for _, id := range ids {
		r := simapp.New(id, opts...)
		if h, ok := set.Launch[id]; ok {
			r.ApplyLaunchHints(h)
		}
		if h, ok := set.Process[id]; ok {
			r.ApplyProcessHints(h)
		}
		out = append(out, r)
	}
	return out
}
