package pokeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	client := NewClient(Config{
		BaseURL:    serverURL,
		Timeout:    time.Second,
		RateLimit:  1000,
		Burst:      10,
		MaxRetries: 2,
	}, zerolog.Nop())
	client.initialBackoff = time.Millisecond
	client.maxBackoff = 5 * time.Millisecond
	return client
}

func TestClient_GetPokemon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon/25", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 25,
			"name": "pikachu",
			"height": 4,
			"weight": 60,
			"types": [{"slot": 1, "type": {"name": "electric", "url": ""}}],
			"stats": [
				{"base_stat": 35, "stat": {"name": "hp"}},
				{"base_stat": 90, "stat": {"name": "speed"}}
			],
			"abilities": [{"is_hidden": false, "slot": 1, "ability": {"name": "static"}}],
			"sprites": {"front_default": "https://img/25.png", "other": {"official-artwork": {"front_default": null}}}
		}`))
	}))
	defer server.Close()

	pokemon, err := newTestClient(server.URL).GetPokemon(context.Background(), 25)
	require.NoError(t, err)

	assert.Equal(t, 25, pokemon.ID)
	assert.Equal(t, "pikachu", pokemon.Name)
	require.Len(t, pokemon.Types, 1)
	assert.Equal(t, "electric", pokemon.Types[0].Type.Name)
	require.Len(t, pokemon.Stats, 2)
	assert.Equal(t, 90, pokemon.Stats[1].BaseStat)
	require.NotNil(t, pokemon.Sprites.FrontDefault)
	assert.Equal(t, "https://img/25.png", *pokemon.Sprites.FrontDefault)
	assert.Nil(t, pokemon.Sprites.Other.OfficialArtwork.FrontDefault)
	assert.Equal(t, "static", pokemon.Abilities[0].Ability.Name)
}

func TestClient_GetPokemonSpecies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon-species/1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 1,
			"name": "bulbasaur",
			"names": [
				{"name": "フシギダネ", "language": {"name": "ja"}},
				{"name": "Bulbasaur", "language": {"name": "en"}}
			],
			"generation": {"name": "generation-i", "url": ""}
		}`))
	}))
	defer server.Close()

	species, err := newTestClient(server.URL).GetPokemonSpecies(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "generation-i", species.Generation.Name)
	require.Len(t, species.Names, 2)
	assert.Equal(t, "ja", species.Names[0].Language.Name)
}

func TestClient_GetType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/type/fire", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 10,
			"name": "fire",
			"damage_relations": {
				"double_damage_to": [{"name": "grass"}, {"name": "bug"}],
				"half_damage_to": [{"name": "water"}],
				"no_damage_to": []
			}
		}`))
	}))
	defer server.Close()

	typeData, err := newTestClient(server.URL).GetType(context.Background(), "fire")
	require.NoError(t, err)

	assert.Equal(t, "fire", typeData.Name)
	assert.Len(t, typeData.DamageRelations.DoubleDamageTo, 2)
	assert.Equal(t, "water", typeData.DamageRelations.HalfDamageTo[0].Name)
	assert.Empty(t, typeData.DamageRelations.NoDamageTo)
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetPokemon(context.Background(), 9999)
	require.Error(t, err)

	assert.True(t, IsNotFound(err))
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Contains(t, nf.URL, "/pokemon/9999")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_RetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id": 4, "name": "charmander"}`))
	}))
	defer server.Close()

	pokemon, err := newTestClient(server.URL).GetPokemon(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "charmander", pokemon.Name)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_RetriesOnRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id": 7, "name": "squirtle"}`))
	}))
	defer server.Close()

	pokemon, err := newTestClient(server.URL).GetPokemon(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, pokemon.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetType(context.Background(), "ghost")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "initial attempt plus two retries")
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetType(context.Background(), "fire")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).GetPokemon(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
