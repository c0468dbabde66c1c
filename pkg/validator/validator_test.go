package validator_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"go-marketplace-toko/pkg/validator"
)

type produkForm struct {
	NamaProduk string `json:"nama_produk" validate:"required,notblank,max=10"`
	Harga      string `json:"harga" validate:"required,decimal_gte0"`
	Stok       string `json:"stok" validate:"required,int_gte0"`
}

func TestFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		form   produkForm
		fields []string
	}{
		{
			name: "valid",
			form: produkForm{NamaProduk: "Kopi", Harga: "15000.50", Stok: "0"},
		},
		{
			name:   "negative harga",
			form:   produkForm{NamaProduk: "Kopi", Harga: "-5", Stok: "1"},
			fields: []string{"harga"},
		},
		{
			name:   "harga not a number",
			form:   produkForm{NamaProduk: "Kopi", Harga: "sepuluh", Stok: "1"},
			fields: []string{"harga"},
		},
		{
			name:   "negative stok",
			form:   produkForm{NamaProduk: "Kopi", Harga: "1", Stok: "-1"},
			fields: []string{"stok"},
		},
		{
			name:   "fractional stok",
			form:   produkForm{NamaProduk: "Kopi", Harga: "1", Stok: "1.5"},
			fields: []string{"stok"},
		},
		{
			name:   "blank nama",
			form:   produkForm{NamaProduk: "   ", Harga: "1", Stok: "1"},
			fields: []string{"nama_produk"},
		},
		{
			name: "largest harga that fits numeric(15,2)",
			form: produkForm{NamaProduk: "Kopi", Harga: "9999999999999.99", Stok: "1"},
		},
		{
			name:   "harga beyond numeric(15,2)",
			form:   produkForm{NamaProduk: "Kopi", Harga: "1e20", Stok: "1"},
			fields: []string{"harga"},
		},
		{
			name:   "harga at the upper bound",
			form:   produkForm{NamaProduk: "Kopi", Harga: "10000000000000", Stok: "1"},
			fields: []string{"harga"},
		},
		{
			name:   "harga with three decimals",
			form:   produkForm{NamaProduk: "Kopi", Harga: "1.505", Stok: "1"},
			fields: []string{"harga"},
		},
		{
			name: "trailing zero decimals",
			form: produkForm{NamaProduk: "Kopi", Harga: "1.500", Stok: "1"},
		},
		{
			name:   "missing and too long",
			form:   produkForm{NamaProduk: "Kopi Susu Gula Aren", Stok: "1"},
			fields: []string{"nama_produk", "harga"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			fields := validator.FieldErrors(&tt.form)
			c.Assert(fields, qt.HasLen, len(tt.fields))
			for _, f := range tt.fields {
				c.Assert(fields[f], qt.Not(qt.Equals), "")
			}
		})
	}
}
