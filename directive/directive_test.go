package directive

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		want    Field
		wantErr bool
	}{
		{"", Field{}, false},
		{"const=342", Field{Kind: KindConst, Value: "342"}, false},
		{"const=", Field{Kind: KindConst, Value: ""}, false},
		{"const=a=b", Field{Kind: KindConst, Value: "a=b"}, false},
		{"from=Customer.Email", Field{Kind: KindFrom, Path: Path{"Customer", "Email"}}, false},
		{"from=Name", Field{Kind: KindFrom, Path: Path{"Name"}}, false},
		{"from=", Field{}, true},
		{"from=Bad..Path", Field{}, true},
		{"copy=Name", Field{}, true},
		{"const", Field{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseTag(tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    Path
		wantErr bool
	}{
		{"Name", Path{"Name"}, false},
		{"Customer.Address.City", Path{"Customer", "Address", "City"}, false},
		{"_private.Field2", Path{"_private", "Field2"}, false},
		{"", nil, true},
		{".", nil, true},
		{"Customer.", nil, true},
		{"1Bad", nil, true},
		{"Has Space", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

type invoice struct{}

type invoiceView struct{}

func TestTableMerge(t *testing.T) {
	tbl := NewTable()
	RegisterFor[invoice](tbl, WithConvertible())
	RegisterFor[invoice](tbl, WithConst("Code", "A1"))

	cfg := tbl.Config(reflect.TypeFor[invoice]())
	require.NotNil(t, cfg)
	assert.True(t, cfg.Convertible)

	f, ok := tbl.FieldFor(reflect.TypeFor[invoice](), "Code")
	require.True(t, ok)
	assert.Equal(t, Field{Kind: KindConst, Value: "A1"}, f)

	_, ok = tbl.FieldFor(reflect.TypeFor[invoice](), "Other")
	assert.False(t, ok)

	assert.Nil(t, tbl.Config(reflect.TypeFor[invoiceView]()))
}

func TestWithSourcePanicsOnBadPath(t *testing.T) {
	assert.Panics(t, func() {
		WithSource("Name", "Bad..Path")
	})
}

func TestTypeRegistry(t *testing.T) {
	r := NewTypeRegistry()

	require.NoError(t, RegisterName[invoice](r, ""))
	require.NoError(t, RegisterName[invoice](r, "")) // same pair, idempotent
	require.NoError(t, RegisterName[invoiceView](r, "View"))

	typ, ok := r.Lookup("invoice")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[invoice](), typ)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	assert.Error(t, RegisterName[invoiceView](r, "invoice"))
	assert.Equal(t, []string{"View", "invoice"}, r.Names())
}

const sampleConfig = `
version: "1"
types:
  - name: OrderView
    convertible: true
    fields:
      Code:
        const: "342"
      City: Customer.Address.City
      Email:
        from: Customer.Email
  - name: CardView
    mappedFrom: CardPayment
  - name: PaymentView
    variants: [CardView]
`

type orderView struct{}

type cardPayment struct{}

type cardView struct{}

type paymentView interface{ isPaymentView() }

func sampleRegistry(t *testing.T) *TypeRegistry {
	t.Helper()

	r := NewTypeRegistry()
	require.NoError(t, RegisterName[orderView](r, "OrderView"))
	require.NoError(t, RegisterName[cardPayment](r, "CardPayment"))
	require.NoError(t, RegisterName[cardView](r, "CardView"))
	require.NoError(t, RegisterName[paymentView](r, "PaymentView"))

	return r
}

func TestLoad(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, Load([]byte(sampleConfig), sampleRegistry(t), tbl))

	cfg := tbl.Config(reflect.TypeFor[orderView]())
	require.NotNil(t, cfg)
	assert.True(t, cfg.Convertible)
	assert.Equal(t, Field{Kind: KindConst, Value: "342"}, cfg.Fields["Code"])
	assert.Equal(t, Field{Kind: KindFrom, Path: Path{"Customer", "Address", "City"}}, cfg.Fields["City"])
	assert.Equal(t, Field{Kind: KindFrom, Path: Path{"Customer", "Email"}}, cfg.Fields["Email"])

	card := tbl.Config(reflect.TypeFor[cardView]())
	require.NotNil(t, card)
	assert.Equal(t, reflect.TypeFor[cardPayment](), card.MappedFrom)

	payment := tbl.Config(reflect.TypeFor[paymentView]())
	require.NotNil(t, payment)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[cardView]()}, payment.Variants)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directives.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	tbl := NewTable()
	require.NoError(t, LoadFile(path, sampleRegistry(t), tbl))
	assert.NotNil(t, tbl.Config(reflect.TypeFor[orderView]()))

	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), sampleRegistry(t), tbl))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown type", "types:\n  - name: Nope\n"},
		{"unknown variant", "types:\n  - name: PaymentView\n    variants: [Nope]\n"},
		{"unknown mappedFrom", "types:\n  - name: CardView\n    mappedFrom: Nope\n"},
		{"const and from", "types:\n  - name: OrderView\n    fields:\n      Code: {const: \"1\", from: A.B}\n"},
		{"empty directive", "types:\n  - name: OrderView\n    fields:\n      Code: {}\n"},
		{"bad path", "types:\n  - name: OrderView\n    fields:\n      Code: Bad..Path\n"},
		{"not yaml", "types: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Load([]byte(tt.doc), sampleRegistry(t), NewTable())
			assert.Error(t, err)
		})
	}
}
