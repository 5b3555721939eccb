package smali

import (
	"strings"
	"testing"
)

const fooUnit = `.class public Lcom/example/Foo;
.super Ljava/lang/Object;
.source "Foo.java"

# direct methods
.method public constructor <init>()V
    .registers 1
    invoke-direct {p0}, Ljava/lang/Object;-><init>()V
    return-void
.end method

.method public bar(I)Ljava/lang/String;
    .registers 3
    const-string v0, "bar"
    return-object v0
.end method

.method private static varargs join([Ljava/lang/String;)V
    .registers 1
    return-void
.end method
`

func TestScan_ClassAndMethods(t *testing.T) {
	unit, ok := Scan(fooUnit)
	if !ok {
		t.Fatal("expected class declaration to be recognised")
	}
	if unit.Class != "Lcom/example/Foo;" {
		t.Fatalf("expected class Lcom/example/Foo;, got %q", unit.Class)
	}
	want := []MethodEntry{
		{Ordinal: 0, Name: "<init>", Params: ""},
		{Ordinal: 1, Name: "bar", Params: "I"},
		{Ordinal: 2, Name: "join", Params: "[Ljava/lang/String;"},
	}
	if len(unit.Methods) != len(want) {
		t.Fatalf("expected %d methods, got %d: %+v", len(want), len(unit.Methods), unit.Methods)
	}
	for i, m := range want {
		if unit.Methods[i] != m {
			t.Errorf("method %d = %+v, want %+v", i, unit.Methods[i], m)
		}
	}
	if !unit.Methods[0].IsConstructor() {
		t.Error("expected <init> to be reported as constructor")
	}
}

func TestScan_NoClassDeclaration(t *testing.T) {
	text := ".method public bar(I)V\n.end method\n"
	if _, ok := Scan(text); ok {
		t.Fatal("expected unit without class declaration to be skipped")
	}
	if _, ok := Scan(""); ok {
		t.Fatal("expected empty unit to be skipped")
	}
}

func TestScan_MethodsBeforeClassIgnored(t *testing.T) {
	text := ".method public early()V\n.class Lcom/example/Late;\n.method public late(J)V\n"
	unit, ok := Scan(text)
	if !ok {
		t.Fatal("expected class to be recognised")
	}
	if len(unit.Methods) != 1 || unit.Methods[0].Name != "late" || unit.Methods[0].Ordinal != 0 {
		t.Fatalf("expected only the method after the class line, got %+v", unit.Methods)
	}
}

func TestScan_LastClassWins(t *testing.T) {
	text := strings.Join([]string{
		".class public Lcom/example/A;",
		".method public a()V",
		".class public final Lcom/example/B;",
		".method public b(Z)V",
	}, "\n")
	unit, ok := Scan(text)
	if !ok {
		t.Fatal("expected class to be recognised")
	}
	if unit.Class != "Lcom/example/B;" {
		t.Fatalf("expected last class declaration to win, got %q", unit.Class)
	}
	if len(unit.Methods) != 2 || unit.Methods[1].Ordinal != 1 {
		t.Fatalf("expected ordinals to continue across class lines, got %+v", unit.Methods)
	}
}

func TestScan_CRLFAndModifiers(t *testing.T) {
	text := ".class public abstract interface Lcom/example/Api;\r\n" +
		".method public abstract fetch(Ljava/lang/String;I)Lcom/example/Result;\r\n"
	unit, ok := Scan(text)
	if !ok {
		t.Fatal("expected class to be recognised")
	}
	if unit.Class != "Lcom/example/Api;" {
		t.Fatalf("unexpected class %q", unit.Class)
	}
	if len(unit.Methods) != 1 {
		t.Fatalf("expected 1 method, got %+v", unit.Methods)
	}
	if got := unit.Methods[0]; got.Name != "fetch" || got.Params != "Ljava/lang/String;I" {
		t.Fatalf("unexpected method %+v", got)
	}
}

func TestScanReader_MatchesScan(t *testing.T) {
	fromReader, ok, err := ScanReader(strings.NewReader(fooUnit))
	if err != nil {
		t.Fatalf("scan reader: %v", err)
	}
	if !ok {
		t.Fatal("expected class declaration to be recognised")
	}
	fromText, _ := Scan(fooUnit)
	if fromReader.Class != fromText.Class || len(fromReader.Methods) != len(fromText.Methods) {
		t.Fatalf("reader and text scans disagree: %+v vs %+v", fromReader, fromText)
	}
}
