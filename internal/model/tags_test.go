package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTagsValue expects that a nil tag set maps to SQL NULL and a non-nil
// set to a JSON array.
func TestTagsValue(t *testing.T) {
	var none Tags
	value, err := none.Value()
	assert.NoError(t, err)
	assert.Nil(t, value)

	some := Tags{"vip", "customer"}
	value, err = some.Value()
	assert.NoError(t, err)
	assert.Equal(t, []byte(`["vip","customer"]`), value)
}

// TestTagsScan expects that NULL, []byte and string database values are all
// read back correctly.
func TestTagsScan(t *testing.T) {
	var tags Tags

	assert.NoError(t, tags.Scan(nil))
	assert.Nil(t, tags)

	assert.NoError(t, tags.Scan([]byte(`["vip"]`)))
	assert.Equal(t, Tags{"vip"}, tags)

	assert.NoError(t, tags.Scan(`["a","b"]`))
	assert.Equal(t, Tags{"a", "b"}, tags)

	assert.Error(t, tags.Scan(42))
}

// TestTagsContains expects exact matching, so "vip" does not match "vip2".
func TestTagsContains(t *testing.T) {
	tags := Tags{"vip", "customer"}
	assert.True(t, tags.Contains("vip"))
	assert.False(t, tags.Contains("vip2"))
	assert.False(t, tags.Contains("VIP"))
	assert.False(t, Tags(nil).Contains("vip"))
}
