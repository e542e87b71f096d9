package view

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_AllPagesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "products.html", "product_detail.html", "product_form.html",
		"product_delete.html", "register.html", "login.html", "cart.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestTemplates_ErrorPageEscapes(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "error.html", map[string]interface{}{
		"status":  404,
		"message": "<script>x</script>",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Contains(t, buf.String(), "Log in")
}

func TestMoney(t *testing.T) {
	money := Funcs["money"].(func(decimal.Decimal) string)
	assert.Equal(t, "3.50", money(decimal.RequireFromString("3.5")))
	assert.Equal(t, "0.00", money(decimal.Zero))
}
