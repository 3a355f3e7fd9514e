package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another console already owns the data directory.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateMessage = "show"
	notifyTimeout   = 2 * time.Second
)

// InstanceGuard holds the single-instance lock for one data directory.
// While held, it accepts activation requests from later launches.
type InstanceGuard struct {
	listener net.Listener
	address  string
	wg       sync.WaitGroup
}

// AcquireSingleInstance binds a localhost port derived from the app name and
// data directory, so two consoles never write the same store.
func AcquireSingleInstance(appName, dataDir string) (*InstanceGuard, error) {
	address := instanceAddress(appName, dataDir)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, address)
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Serve calls onActivate for every activation request until Release.
func (guard *InstanceGuard) Serve(onActivate func()) {
	guard.wg.Add(1)
	go func() {
		defer guard.wg.Done()
		for {
			conn, err := guard.listener.Accept()
			if err != nil {
				return
			}
			if readActivation(conn) && onActivate != nil {
				onActivate()
			}
		}
	}()
}

// NotifyRunning asks the console holding the lock to bring itself forward.
func NotifyRunning(appName, dataDir string) error {
	address := instanceAddress(appName, dataDir)
	conn, err := net.DialTimeout("tcp", address, notifyTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(notifyTimeout))
	if _, err := fmt.Fprintln(conn, activateMessage); err != nil {
		return fmt.Errorf("notify %s: %w", address, err)
	}
	return nil
}

// Release frees the lock and waits for Serve to return.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.wg.Wait()
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func readActivation(conn net.Conn) bool {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(notifyTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == activateMessage
}

func instanceAddress(appName, dataDir string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromKey(instanceKey(appName, dataDir)))
}

func instanceKey(appName, dataDir string) string {
	if dataDir == "" {
		return appName
	}
	return appName + "\x00" + filepath.Clean(dataDir)
}

// portFromKey maps key into 20000-39999.
func portFromKey(key string) int {
	const (
		minPort   = 20000
		portRange = 20000
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	return minPort + int(hash.Sum32()%portRange)
}
