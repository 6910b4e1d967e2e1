package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestScanReport_Finalize_SortAndSummaryAndUTC(t *testing.T) {
	r := ScanReport{
		Root:       "/abs/Devices",
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Items: []AppResult{
			{Device: "B", BundleID: "com.b", Status: StatusResolved},
			{Device: "A", BundleID: "", Status: StatusFailed}, // 设备级合成项
			{Device: "A", BundleID: "com.z", Status: StatusUnresolved},
			{Device: "A", BundleID: "com.a", Status: StatusResolved},
		},
	}

	r.Finalize()

	got := []string{
		r.Items[0].Device + "/" + r.Items[0].BundleID,
		r.Items[1].Device + "/" + r.Items[1].BundleID,
		r.Items[2].Device + "/" + r.Items[2].BundleID,
		r.Items[3].Device + "/" + r.Items[3].BundleID,
	}
	want := []string{"A/com.a", "A/com.z", "A/", "B/com.b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items 排序不符合契约：got=%v want=%v", got, want)
		}
	}
	if r.Summary.Devices != 2 || r.Summary.Resolved != 2 || r.Summary.Unresolved != 1 || r.Summary.Failed != 1 {
		t.Fatalf("summary 统计不正确：%+v", r.Summary)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte(`"started_at":"2026-02-09T02:00:00Z"`)) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
	if !bytes.Contains(b, []byte(`"properties":[]`)) {
		t.Fatalf("nil properties 应输出为 []：%s", string(b))
	}
}

func TestProperty_MarshalJSON(t *testing.T) {
	b, err := json.Marshal([]Property{
		{Title: "Bundle ID", Value: Text("com.example.Foo")},
		{Title: "Bundle", Value: Location("/x/Foo.app")},
	})
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	want := `[{"title":"Bundle ID","kind":"text","value":"com.example.Foo"},{"title":"Bundle","kind":"location","value":"/x/Foo.app"}]`
	if string(b) != want {
		t.Fatalf("输出不符合预期：\n got=%s\nwant=%s", b, want)
	}
}

func TestPropertyValue_Path(t *testing.T) {
	if _, ok := Text("/x").Path(); ok {
		t.Fatalf("Text 不应返回 path")
	}
	p, ok := Location("/x").Path()
	if !ok || p != "/x" {
		t.Fatalf("Location.Path 不符合预期：%q %v", p, ok)
	}
}

func TestParseBundleID(t *testing.T) {
	for _, s := range []string{"com.example.Foo", "com.apple.mobilesafari", "Foo-Bar_1"} {
		if _, ok := ParseBundleID(s); !ok {
			t.Fatalf("期望合法：%q", s)
		}
	}
	for _, s := range []string{"", "..", "../etc", "a/b", ".hidden", "a b"} {
		if _, ok := ParseBundleID(s); ok {
			t.Fatalf("期望非法：%q", s)
		}
	}
}
