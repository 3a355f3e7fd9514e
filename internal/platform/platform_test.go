package platform

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestFallbackConfigDir(t *testing.T) {
	home := filepath.Join("home", "officer")

	assert.Equal(t, filepath.Join(home, "AppData", "Roaming"), fallbackConfigDir("windows", home))
	assert.Equal(t, filepath.Join(home, "Library", "Application Support"), fallbackConfigDir("darwin", home))
	assert.Equal(t, filepath.Join(home, ".config"), fallbackConfigDir("linux", home))
}

func TestDataDirEndsWithAppName(t *testing.T) {
	dir, err := DataDir("Presider")
	require.NoError(t, err)

	assert.Equal(t, "Presider", filepath.Base(dir))
}

func TestPortFromKeyIsStableAndInRange(t *testing.T) {
	keys := []string{
		instanceKey("Presider", ""),
		instanceKey("Presider", "/var/lib/presider"),
		instanceKey("Presider", "/var/lib/presider/"),
		instanceKey("Other", "/var/lib/presider"),
	}
	for _, key := range keys {
		port := portFromKey(key)
		assert.GreaterOrEqual(t, port, 20000)
		assert.LessOrEqual(t, port, 39999)
		assert.Equal(t, port, portFromKey(key))
	}
	assert.Equal(t, keys[1], keys[2], "data dirs are cleaned")
	assert.NotEqual(t, keys[1], keys[3])
}

func TestAcquireSingleInstance(t *testing.T) {
	dataDir := t.TempDir()

	guard, err := AcquireSingleInstance("PresiderTest", dataDir)
	require.NoError(t, err)
	defer guard.Release()
	assert.NotEmpty(t, guard.Address())

	_, err = AcquireSingleInstance("PresiderTest", dataDir)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	again, err := AcquireSingleInstance("PresiderTest", dataDir)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestNotifyRunningActivatesHolder(t *testing.T) {
	defer goleak.VerifyNone(t)
	dataDir := t.TempDir()

	guard, err := AcquireSingleInstance("PresiderNotify", dataDir)
	require.NoError(t, err)

	activated := make(chan struct{}, 1)
	guard.Serve(func() {
		activated <- struct{}{}
	})

	require.NoError(t, NotifyRunning("PresiderNotify", dataDir))
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("activation not received")
	}

	require.NoError(t, guard.Release())
	assert.Error(t, NotifyRunning("PresiderNotify", dataDir))
}

func TestNilGuard(t *testing.T) {
	var guard *InstanceGuard

	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
}
