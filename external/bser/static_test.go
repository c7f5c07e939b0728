package bser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestCharacters_FetchesAndCaches(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/v2/data/Character":
			_, _ = w.Write([]byte(`{"code":200,"data":[{"code":1,"name":"Jackie","maxHp":790}]}`))
		case "/v2/data/CharacterLevelUpStat":
			_, _ = w.Write([]byte(`{"code":200,"data":[{"code":1,"attackPower":2.4}]}`))
		default:
			http.NotFound(w, r)
		}
	}))

	characters, levelUps, err := client.Characters(context.Background())
	if err != nil {
		t.Fatalf("Characters error: %v", err)
	}
	if len(characters) != 1 || characters[0].Name != "Jackie" || characters[0].MaxHP != 790 {
		t.Fatalf("unexpected characters: %+v", characters)
	}
	if len(levelUps) != 1 || levelUps[0].AttackPower != 2.4 {
		t.Fatalf("unexpected level ups: %+v", levelUps)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 upstream calls, got=%d", calls.Load())
	}

	if _, _, err := client.Characters(context.Background()); err != nil {
		t.Fatalf("cached Characters error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("second call should hit the cache, got=%d upstream calls", calls.Load())
	}
}

func TestEquipmentItems(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/data/ItemArmor":
			_, _ = w.Write([]byte(`{"code":200,"data":[{"code":201,"armorType":"Head","itemGrade":"Rare"}]}`))
		case "/v2/data/ItemWeapon":
			_, _ = w.Write([]byte(`{"code":200,"data":[{"code":101,"weaponType":"Pistol","itemGrade":"Epic"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))

	armor, weapon, err := client.EquipmentItems(context.Background())
	if err != nil {
		t.Fatalf("EquipmentItems error: %v", err)
	}
	if len(armor) != 1 || armor[0].ArmorType != "Head" {
		t.Fatalf("unexpected armor: %+v", armor)
	}
	if len(weapon) != 1 || weapon[0].WeaponType != "Pistol" {
		t.Fatalf("unexpected weapon: %+v", weapon)
	}
}

func TestL10nText_TwoStepDownload(t *testing.T) {
	t.Parallel()

	var blobCalls atomic.Int32
	blobAuth := "unset"

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/v1/l10n/Korean", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"l10Path":"` + server.URL + `/blob/l10n-korean.txt"}}`))
	})
	mux.HandleFunc("/blob/l10n-korean.txt", func(w http.ResponseWriter, r *http.Request) {
		blobCalls.Add(1)
		blobAuth = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte("Trait/Name/7000101┃광분\n"))
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-key"})

	text, err := client.L10nText(context.Background())
	if err != nil {
		t.Fatalf("L10nText error: %v", err)
	}
	if text != "Trait/Name/7000101┃광분\n" {
		t.Fatalf("unexpected blob: %q", text)
	}
	if blobAuth != "" {
		t.Fatalf("blob download must not carry the api key, got=%q", blobAuth)
	}

	if _, err := client.L10nText(context.Background()); err != nil {
		t.Fatalf("cached L10nText error: %v", err)
	}
	if blobCalls.Load() != 1 {
		t.Fatalf("second call should hit the cache, got=%d downloads", blobCalls.Load())
	}
}
