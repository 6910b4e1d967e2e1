package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func encode(t *testing.T, v any, format int) []byte {
	t.Helper()
	b, err := plist.Marshal(v, format)
	require.NoError(t, err)
	return b
}

func TestDecode_AllFields(t *testing.T) {
	for _, format := range []int{plist.XMLFormat, plist.BinaryFormat} {
		b := encode(t, map[string]any{
			"CFBundleName":               "Foo",
			"CFBundleDisplayName":        "Foo Pro",
			"CFBundleShortVersionString": "1.0",
			"CFBundleVersion":            "1.0.3",
			"MinimumOSVersion":           "9.0",
			"CFBundleIcons": map[string]any{
				"CFBundlePrimaryIcon": map[string]any{
					"CFBundleIconFiles": []string{"AppIcon60x60", "AppIcon76x76"},
				},
			},
		}, format)

		m, err := Decode(b)
		require.NoError(t, err)
		assert.Equal(t, "Foo", m.BundleName)
		assert.Equal(t, "Foo Pro", m.DisplayName)
		assert.Equal(t, "1.0", m.ShortVersion)
		assert.Equal(t, "1.0.3", m.Version)
		require.NotNil(t, m.MinOSVersion)
		assert.Equal(t, "9.0", *m.MinOSVersion)
		assert.Equal(t, []string{"AppIcon60x60", "AppIcon76x76"}, m.Icon.Files())
	}
}

func TestDecode_DisplayNameFallsBackToBundleName(t *testing.T) {
	m, err := Decode(encode(t, map[string]any{
		"CFBundleName":        "Foo",
		"CFBundleDisplayName": "",
	}, plist.XMLFormat))
	require.NoError(t, err)
	assert.Equal(t, "Foo", m.DisplayName)

	m, err = Decode(encode(t, map[string]any{"CFBundleName": "Bar"}, plist.XMLFormat))
	require.NoError(t, err)
	assert.Equal(t, "Bar", m.DisplayName)
}

func TestDecode_FieldByFieldDegradation(t *testing.T) {
	// 类型不对的键只影响自身。
	m, err := Decode(encode(t, map[string]any{
		"CFBundleName":               42,
		"CFBundleShortVersionString": "2.1",
		"CFBundleVersion":            []string{"x"},
		"MinimumOSVersion":           true,
		"CFBundleIcons":              "Icon",
	}, plist.XMLFormat))
	require.NoError(t, err)
	assert.Equal(t, "", m.BundleName)
	assert.Equal(t, "", m.DisplayName)
	assert.Equal(t, "2.1", m.ShortVersion)
	assert.Equal(t, "", m.Version)
	assert.Nil(t, m.MinOSVersion)
	assert.True(t, m.Icon.IsZero())
}

func TestDecode_PrimaryIconString(t *testing.T) {
	m, err := Decode(encode(t, map[string]any{
		"CFBundleIcons": map[string]any{"CFBundlePrimaryIcon": "Icon"},
	}, plist.XMLFormat))
	require.NoError(t, err)
	assert.Equal(t, []string{"Icon"}, m.Icon.Files())
}

func TestDecode_PrimaryIconSkipsNonStringFiles(t *testing.T) {
	m, err := Decode(encode(t, map[string]any{
		"CFBundleIcons": map[string]any{
			"CFBundlePrimaryIcon": map[string]any{
				"CFBundleIconFiles": []any{"A", 7, "B"},
			},
		},
	}, plist.XMLFormat))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, m.Icon.Files())
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("not a plist at all {"))
	assert.Error(t, err)

	_, err = Decode(encode(t, []string{"a", "b"}, plist.XMLFormat))
	assert.Error(t, err, "根节点不是字典时应报错")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_FromBundle(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "Foo.app")
	require.NoError(t, os.MkdirAll(bundle, 0o755))
	require.NoError(t, os.WriteFile(Path(bundle), encode(t, map[string]any{"CFBundleName": "Foo"}, plist.BinaryFormat), 0o644))

	m, err := Load(bundle)
	require.NoError(t, err)
	assert.Equal(t, "Foo", m.BundleName)
}

func TestIconRef_Files(t *testing.T) {
	assert.Nil(t, IconRef{}.Files())
	assert.True(t, IconRef{}.IsZero())
	assert.Equal(t, []string{"a"}, SingleName("a").Files())

	names := []string{"a", "b"}
	r := NameList(names)
	names[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, r.Files(), "NameList 必须拷贝输入")
}
