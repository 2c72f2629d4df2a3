package s3

import (
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ConnectionPool manages a pool of S3 client connections
type ConnectionPool struct {
	mu          sync.Mutex
	connections chan *s3.Client
	factory     func() (*s3.Client, error)
	maxSize     int
	currentSize int
	closed      bool
}

// NewConnectionPool creates a new connection pool
func NewConnectionPool(maxSize int, factory func() (*s3.Client, error)) (*ConnectionPool, error) {
	if maxSize <= 0 {
		maxSize = 8 // Default pool size
	}
	if factory == nil {
		return nil, fmt.Errorf("client factory cannot be nil")
	}

	return &ConnectionPool{
		connections: make(chan *s3.Client, maxSize),
		factory:     factory,
		maxSize:     maxSize,
	}, nil
}

// Get returns a client from the pool, creating one if none is idle and the
// pool has capacity. Blocks when the pool is exhausted.
func (p *ConnectionPool) Get() *s3.Client {
	select {
	case client := <-p.connections:
		return client
	default:
	}

	p.mu.Lock()
	if p.currentSize < p.maxSize {
		p.currentSize++
		p.mu.Unlock()

		client, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.currentSize--
			p.mu.Unlock()
			return <-p.connections
		}
		return client
	}
	p.mu.Unlock()

	return <-p.connections
}

// Put returns a client to the pool. Clients handed back after Close are dropped.
func (p *ConnectionPool) Put(client *s3.Client) {
	if client == nil {
		return
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return
	}

	select {
	case p.connections <- client:
	default:
		// Pool full; drop the client.
		p.mu.Lock()
		p.currentSize--
		p.mu.Unlock()
	}
}

// Size returns the number of clients the pool has created
func (p *ConnectionPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentSize
}

// Close marks the pool as closed and drains idle connections
func (p *ConnectionPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case <-p.connections:
		default:
			return nil
		}
	}
}
