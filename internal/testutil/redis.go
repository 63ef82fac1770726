package testutil

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
)

// MemoryRedis answers GET, SET and DEL from a map so redis-backed code can be
// tested without a server. Any other command fails.
type MemoryRedis struct {
	mu   sync.Mutex
	data map[string]string
}

// NewRedis returns a client whose commands never leave the process.
func NewRedis(t *testing.T) (*redis.Client, *MemoryRedis) {
	t.Helper()

	mem := &MemoryRedis{data: map[string]string{}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(mem)
	t.Cleanup(func() { _ = client.Close() })

	return client, mem
}

func (m *MemoryRedis) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("memory redis does not dial %s", addr)
	}
}

func (m *MemoryRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			if cmd.Name() == "get" {
				v, ok := m.data[fmt.Sprint(args[1])]
				if !ok {
					c.SetErr(redis.Nil)
					return redis.Nil
				}
				c.SetVal(v)
				return nil
			}
		case *redis.StatusCmd:
			if cmd.Name() == "set" {
				m.data[fmt.Sprint(args[1])] = fmt.Sprint(args[2])
				c.SetVal("OK")
				return nil
			}
		case *redis.IntCmd:
			if cmd.Name() == "del" {
				var n int64
				for _, k := range args[1:] {
					key := fmt.Sprint(k)
					if _, ok := m.data[key]; ok {
						delete(m.data, key)
						n++
					}
				}
				c.SetVal(n)
				return nil
			}
		}

		err := fmt.Errorf("memory redis: unsupported command %q", cmd.Name())
		cmd.SetErr(err)
		return err
	}
}

func (m *MemoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return fmt.Errorf("memory redis does not pipeline")
	}
}
