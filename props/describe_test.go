package props_test

import (
	"reflect"
	"testing"

	"github.com/roc-wong/auto-assembler/props"
)

type account struct {
	ID      int64
	Email   string `asm:"from=Contact.Email"`
	balance int64
	Code    string `asm:"const=ACC"`
}

func (a *account) SetBalance(v int64) { a.balance = v }
func (a *account) GetBalance() int64 { return a.balance }

type audited struct {
	note string
}

func (a *audited) SetNote(v string) { a.note = v }
func (a *audited) String() string { return "audited" }
func (a *audited) GetString() string { return a.note }
func (a *audited) GoString() string { return "audited{}" }
func (a *audited) ReadOnly() string { return a.note } // bare form, not an accessor
func (a *audited) GetRevision() int { return 7 }
func (a *audited) GetPair() (int, int) { return 1, 2 } // wrong shape

type embedded struct {
	Street string
}

type withEmbedded struct {
	embedded
	City string
}

func TestDescribeFields(t *testing.T) {
	list, err := props.Describe(reflect.TypeFor[account]())
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, 0, len(list))
	for i := range list {
		names = append(names, list[i].Name)
	}

	want := []string{"ID", "Email", "Code", "Balance"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("property order = %v, want %v", names, want)
	}

	email := props.Find(list, "Email")
	if email.Tag != "from=Contact.Email" {
		t.Errorf("Email tag = %q", email.Tag)
	}

	bal := props.Find(list, "Balance")
	if !bal.CanRead() || !bal.CanWrite() {
		t.Errorf("Balance accessors: read=%v write=%v", bal.CanRead(), bal.CanWrite())
	}
	if bal.FieldBacked() {
		t.Error("Balance should be method-derived")
	}
}

func TestDescribeDeterministicOrdering(t *testing.T) {
	first, err := props.Describe(reflect.TypeFor[audited]())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		again, err := props.Describe(reflect.TypeFor[audited]())
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(first, again) {
			t.Fatalf("description changed between calls: %v vs %v", first, again)
		}
	}
}

func TestDescribeReservedAndShape(t *testing.T) {
	list, err := props.Describe(reflect.TypeFor[audited]())
	if err != nil {
		t.Fatal(err)
	}

	for _, forbidden := range []string{"String", "GoString", "Error", "ReadOnly", "Pair"} {
		if props.Find(list, forbidden) != nil {
			t.Errorf("property %q should be excluded", forbidden)
		}
	}

	note := props.Find(list, "Note")
	if note == nil || note.CanRead() || !note.CanWrite() {
		t.Fatalf("Note should be write-only, got %+v", note)
	}

	rev := props.Find(list, "Revision")
	if rev == nil || !rev.CanRead() || rev.CanWrite() {
		t.Fatalf("Revision should be read-only, got %+v", rev)
	}
}

func TestDescribeEmbedded(t *testing.T) {
	list, err := props.Describe(reflect.TypeFor[withEmbedded]())
	if err != nil {
		t.Fatal(err)
	}

	if props.Find(list, "Street") == nil {
		t.Error("promoted field Street should be described")
	}
	if props.Find(list, "City") == nil {
		t.Error("City should be described")
	}
}

func TestReadWrite(t *testing.T) {
	acc := &account{ID: 7}

	list, err := props.Describe(reflect.TypeOf(acc))
	if err != nil {
		t.Fatal(err)
	}

	id := props.Find(list, "ID")
	v, err := id.Read(reflect.ValueOf(acc))
	if err != nil || v.Int() != 7 {
		t.Fatalf("read ID = %v, %v", v, err)
	}

	bal := props.Find(list, "Balance")
	if err := bal.Write(reflect.ValueOf(acc), reflect.ValueOf(int64(500))); err != nil {
		t.Fatal(err)
	}

	v, err = bal.Read(reflect.ValueOf(acc))
	if err != nil || v.Int() != 500 {
		t.Fatalf("read Balance = %v, %v", v, err)
	}

	if err := id.Write(reflect.ValueOf(acc), reflect.ValueOf("nope")); err == nil {
		t.Error("writing string to int64 field should fail")
	}
}

func TestDescribeNonStruct(t *testing.T) {
	if _, err := props.Describe(reflect.TypeFor[int]()); err == nil {
		t.Error("describing a non-struct should fail")
	}
}
