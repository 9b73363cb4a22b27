package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("all").Valid())
	assert.False(t, Category("Android").Valid())
}

func TestEffectivePrice(t *testing.T) {
	assert.Equal(t, "70,000 BDT", Project{Price: "1,00,000 BDT", Discount: "70,000 BDT"}.EffectivePrice())
	assert.Equal(t, "40,000 BDT", Project{Price: "40,000 BDT"}.EffectivePrice())
}

func TestEveryModelFieldDeclaresItsColumn(t *testing.T) {
	for _, m := range All() {
		fields := getModelFields(m)
		assert.NotEmpty(t, fields, m.TableName())
		assert.Empty(t, findColumnMismatches(fields, fields), m.TableName())
	}

	assert.Contains(t, getModelFields(Project{}), "is_public")
	assert.Contains(t, getModelFields(Purchase{}), "transaction_id")
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches([]string{"uid", "email", "legacy_phone"}, []string{"uid", "email"})
	assert.Equal(t, []string{"legacy_phone"}, got)
	assert.Equal(t, "full_name", extractColumnNameFromGormTag("column:full_name;type:text;not null"))
	assert.Equal(t, "", extractColumnNameFromGormTag("type:text"))
}
