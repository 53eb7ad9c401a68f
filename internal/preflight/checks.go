package preflight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"scenecache/internal/exceptions"
	"scenecache/internal/namecache"
	"scenecache/internal/showcatalog"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckShowCatalog parses the show catalog. A missing file passes because a
// rebuild treats it as an empty catalog.
func CheckShowCatalog(path string) Result {
	const name = "Show catalog"

	data, ok, result := readSource(name, path)
	if !ok {
		return result
	}
	shows, skipped, err := showcatalog.Parse(data)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	detail := fmt.Sprintf("%s (%d shows", path, len(shows))
	if len(skipped) > 0 {
		detail += fmt.Sprintf(", %d skipped", len(skipped))
	}
	return Result{Name: name, Passed: true, Detail: detail + ")"}
}

// CheckExceptions parses the scene exceptions file. A missing file passes.
func CheckExceptions(path string) Result {
	const name = "Scene exceptions"

	data, ok, result := readSource(name, path)
	if !ok {
		return result
	}
	entries, err := exceptions.Parse(data)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	shows := make(map[int64]struct{}, len(entries))
	names := 0
	for _, entry := range entries {
		shows[entry.ShowID] = struct{}{}
		names += len(entry.Names)
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d names for %d shows)", path, names, len(shows))}
}

func readSource(name, path string) ([]byte, bool, Result) {
	if strings.TrimSpace(path) == "" {
		return nil, false, Result{Name: name, Detail: "not configured"}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (missing, treated as empty)", path)}
	}
	if err != nil {
		return nil, false, Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return data, true, Result{}
}

// CheckStore reads every stored row and reports how many are unresolved or
// carry an identifier a rebuild would reject.
func CheckStore(ctx context.Context, store namecache.Store) Result {
	const name = "Cache store"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := store.Rows(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("read failed (%v)", err)}
	}
	var unresolved, invalid int
	for _, row := range rows {
		switch {
		case row.IndexerID < 0:
			invalid++
		case row.IndexerID == 0:
			unresolved++
		}
	}
	if invalid > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%d rows, %d with a negative indexer_id", len(rows), invalid)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d rows (%d unresolved)", len(rows), unresolved)}
}

// CheckServer queries a running server's /healthz endpoint at bind.
func CheckServer(ctx context.Context, bind string) Result {
	const name = "API server"

	base := strings.TrimRight(strings.TrimSpace(bind), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing bind address"}
	}
	if !strings.Contains(base, "://") {
		if host, port, err := net.SplitHostPort(base); err == nil && (host == "" || host == "0.0.0.0" || host == "::") {
			base = net.JoinHostPort("127.0.0.1", port)
		}
		base = "http://" + base
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/healthz", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%v)", err)}
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%d)", resp.StatusCode)}
	}
	var health struct {
		Status  string `json:"status"`
		Entries int    `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unexpected health response (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s, %d names)", base, health.Status, health.Entries)}
}
