package textgen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + text + `}]}}]}`
}

func TestGeneratePosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Write([]byte(generateResponse(`"[\"first post\", \"second post\"]"`)))
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	posts := client.GeneratePosts(context.Background(), 5)
	require.Len(t, posts, 2)
	assert.Equal(t, "first post", posts[0])
	assert.Equal(t, "second post", posts[1])
}

func TestGeneratePostsTrimsToCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(generateResponse(`"[\"a\", \"b\", \"c\", \"d\"]"`)))
	}))
	defer server.Close()

	posts := New(server.URL, "test-key").GeneratePosts(context.Background(), 2)
	assert.Len(t, posts, 2)
}

func TestGeneratePostsMarkdownFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(generateResponse(`"` + "```json\\n[\\\"fenced\\\"]\\n```" + `"`)))
	}))
	defer server.Close()

	posts := New(server.URL, "test-key").GeneratePosts(context.Background(), 5)
	require.Len(t, posts, 1)
	assert.Equal(t, "fenced", posts[0])
}

func TestGeneratePostsFallbackWithoutKey(t *testing.T) {
	posts := New("http://unused", "").GeneratePosts(context.Background(), 3)
	require.Len(t, posts, 3)
	assert.Equal(t, FallbackPosts[:3], posts)
}

func TestGeneratePostsFallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	posts := New(server.URL, "test-key").GeneratePosts(context.Background(), 2)
	assert.Equal(t, FallbackPosts[:2], posts)
}

func TestGeneratePostsFallbackOnGarbage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(generateResponse(`"this is not a JSON array"`)))
	}))
	defer server.Close()

	posts := New(server.URL, "test-key").GeneratePosts(context.Background(), 2)
	assert.Equal(t, FallbackPosts[:2], posts)
}

func TestParsePostList(t *testing.T) {
	posts, err := parsePostList(`["one", "two", ""]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, posts)

	_, err = parsePostList(`{"not": "an array"}`)
	assert.Error(t, err)

	_, err = parsePostList(`[]`)
	assert.Error(t, err)
}
