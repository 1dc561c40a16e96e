package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeInternal}, "INTERNAL"},
		{&Error{Code: CodeInternal, Message: "boom"}, "INTERNAL: boom"},
		{&Error{Code: CodeInternal, Op: "load"}, "load: INTERNAL"},
		{E(CodeInvalidArgument, "load", "", errors.New("bad yaml")), "load: INVALID_ARGUMENT: bad yaml"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
	}

	var nilErr *Error
	assert.Equal(t, "", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestWrap_KeepsExistingOp(t *testing.T) {
	assert.Nil(t, Wrap(CodeInternal, "op", nil))

	inner := E(CodeRemoteFetchFailed, "arxiv search", "", ErrRemoteStatus)
	wrapped := Wrap(CodeInternal, "lookup", fmt.Errorf("fetch: %w", inner))
	assert.Same(t, inner, wrapped)

	bare := E(CodeEmptyResult, "", "nothing", nil)
	relabeled := Wrap(CodeInternal, "digest", bare)
	assert.Equal(t, "digest", relabeled.Op)
	assert.Equal(t, CodeEmptyResult, relabeled.Code)
	assert.Equal(t, "", bare.Op)
}

func TestRemoteError(t *testing.T) {
	err := RemoteError("arXiv", "arxiv search", ErrRemoteStatus)
	require.True(t, errors.Is(err, ErrRemoteStatus))
	assert.True(t, err.Retryable)
	assert.Equal(t, "arXiv", err.Meta["source"])

	code, ok := CodeFrom(fmt.Errorf("tool: %w", err))
	require.True(t, ok)
	assert.Equal(t, CodeRemoteFetchFailed, code)
}

func TestCodeFrom_Sentinels(t *testing.T) {
	cases := map[error]ErrorCode{
		ErrToolNotFound:         CodeNotFound,
		ErrMissingCredential:    CodeConfigurationMissing,
		ErrEmptyResult:          CodeEmptyResult,
		ErrRemoteStatus:         CodeRemoteFetchFailed,
		ErrInvalidTemperature:   CodeInvalidArgument,
		ErrGeneratorUnavailable: CodeUnavailable,
	}
	for sentinel, want := range cases {
		code, ok := CodeFrom(fmt.Errorf("wrapped: %w", sentinel))
		require.True(t, ok, sentinel)
		assert.Equal(t, want, code, sentinel)
	}

	_, ok := CodeFrom(errors.New("plain"))
	assert.False(t, ok)
	_, ok = CodeFrom(nil)
	assert.False(t, ok)
}

func TestParseToolName(t *testing.T) {
	name, ok := ParseToolName("  ArXiv_Lookup ")
	require.True(t, ok)
	assert.Equal(t, ToolArxivLookup, name)

	_, ok = ParseToolName("unknown")
	assert.False(t, ok)
}

func TestKeywordSet(t *testing.T) {
	set := NewKeywordSet("refresh", "actualise", "maj")
	assert.Equal(t, []string{"actualise", "maj", "refresh"}, set.Sorted())
	assert.True(t, set.Has("maj"))
	assert.True(t, set.ContainedIn("merci d'actualiser la liste"))
	assert.False(t, set.ContainedIn("bonjour"))
}
