package channel

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netshell/internal/boundary"
	ncerr "netshell/internal/errors"
)

// scripted hands out chunks, each preceded by idle polls where Ready is
// false.
type scripted struct {
	chunks []string
	idle   []int
	err    error // returned once chunks run out
	polls  int
	recvs  int
}

func (s *scripted) Send(string) error { return nil }
func (s *scripted) Close() error      { return nil }

func (s *scripted) Ready() bool {
	if len(s.chunks) == 0 {
		return s.err != nil
	}
	if len(s.idle) > 0 && s.idle[0] > 0 {
		s.idle[0]--
		s.polls++
		return false
	}
	return true
}

func (s *scripted) Receive(max int) ([]byte, error) {
	s.recvs++
	if len(s.chunks) == 0 {
		return nil, s.err
	}
	c := s.chunks[0]
	if len(c) > max {
		s.chunks[0] = c[max:]
		return []byte(c[:max]), nil
	}
	s.chunks = s.chunks[1:]
	if len(s.idle) > 0 {
		s.idle = s.idle[1:]
	}
	return []byte(c), nil
}

// fakeClock advances only when the reader sleeps.
type fakeClock struct {
	t      time.Time
	sleeps int
}

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) sleep(d time.Duration) {
	c.sleeps++
	c.t = c.t.Add(d)
}

func newTestReader(ch Channel) (*Reader, *fakeClock) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	r := NewReader(ch)
	r.sleep = clk.sleep
	r.now = clk.now
	return r, clk
}

func TestReadUntil_MatchesAcrossChunks(t *testing.T) {
	ch := &scripted{chunks: []string{"show ver\r\nCisco IOS", " Software\r\nrou", "ter1#"}}
	r, _ := newTestReader(ch)

	raw, lines, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "show ver\r\nCisco IOS Software\r\nrouter1#", raw)
	assert.Equal(t, []string{"show ver\r", "Cisco IOS Software\r", "router1#"}, lines)
	assert.Equal(t, 3, ch.recvs)
}

func TestReadUntil_TrailingCarriageReturn(t *testing.T) {
	ch := &scripted{chunks: []string{"\r\nrouter1>\r"}}
	r, _ := newTestReader(ch)

	_, _, err := r.ReadUntil(boundary.MustCompile("router1>"), time.Second)
	require.NoError(t, err)
}

func TestReadUntil_CaseInsensitivePrefix(t *testing.T) {
	ch := &scripted{chunks: []string{"ROUTER1# "}}
	r, _ := newTestReader(ch)

	_, _, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.NoError(t, err)
}

func TestReadUntil_OnlyLastLineCounts(t *testing.T) {
	// The prompt on an earlier line must not end the read.
	ch := &scripted{chunks: []string{"router1#\r\nbuilding configuration", "\r\nrouter1#"}}
	r, _ := newTestReader(ch)

	raw, _, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, ch.recvs)
	assert.Contains(t, raw, "building configuration")
}

func TestReadUntil_AlwaysReadsOneChunk(t *testing.T) {
	ch := &scripted{chunks: []string{"router1#"}, idle: []int{3}}
	r, clk := newTestReader(ch)

	_, _, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, clk.sleeps)
	assert.Equal(t, 1, ch.recvs)
}

func TestReadUntil_SilenceTimeout(t *testing.T) {
	ch := &scripted{chunks: []string{"partial output"}, idle: []int{0}}
	r, clk := newTestReader(ch)
	r.PollInterval = 100 * time.Millisecond

	raw, _, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ncerr.ErrTimeout))
	assert.Equal(t, "partial output", raw)
	assert.Equal(t, 10, clk.sleeps)
}

func TestReadUntil_TimeoutIsPerChunk(t *testing.T) {
	// Total elapsed time exceeds the window, but no single gap does.
	ch := &scripted{
		chunks: []string{"a\r\n", "b\r\n", "router1#"},
		idle:   []int{8, 8, 8},
	}
	r, clk := newTestReader(ch)

	_, _, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 24, clk.sleeps)
}

func TestReadUntil_MaxReceive(t *testing.T) {
	ch := &scripted{chunks: []string{"0123456789router1#"}}
	r, _ := newTestReader(ch)
	r.MaxReceive = 4

	raw, _, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "0123456789router1#", raw)
	assert.Equal(t, 5, ch.recvs)
}

func TestReadUntil_EOF(t *testing.T) {
	ch := &scripted{chunks: []string{"Connection closed by foreign host\r\n"}, err: io.EOF}
	r, _ := newTestReader(ch)

	raw, _, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ncerr.ErrSessionClosed))
	assert.Contains(t, raw, "Connection closed")
}

func TestReadUntil_Hooks(t *testing.T) {
	ch := &scripted{chunks: []string{"abc\r\n", "router1#"}}
	r, _ := newTestReader(ch)

	var traces []Trace
	var sizes []int
	r.Trace = func(tr Trace) { traces = append(traces, tr) }
	r.OnReceive = func(n int) { sizes = append(sizes, n) }

	_, _, err := r.ReadUntil(boundary.MustCompile("router1#"), time.Second)
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.False(t, traces[0].Matched)
	assert.Equal(t, "", traces[0].Last)
	assert.True(t, traces[1].Matched)
	assert.Equal(t, "router1#", traces[1].Last)
	assert.Equal(t, "router1#", traces[1].Pattern)
	assert.Equal(t, []int{5, 8}, sizes)
}
