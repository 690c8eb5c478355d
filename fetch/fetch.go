// Package fetch aggregates per-vendor IP description YAML files from remote
// repositories into a single IP library JSON document. It only produces
// materialized documents; the generator core never sees a URL.
package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"gopkg.in/yaml.v2"

	"github.com/wbgen/wbgen/log"
)

var yamlBranches = []string{"main", "master"}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Download retrieves a document from an HTTP(S) URL.
func Download(url string) ([]byte, error) {
	response, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %s", url, err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: HTTP %d", url, response.StatusCode)
	}
	return io.ReadAll(response.Body)
}

// ParseRepoURL extracts the owner and repository name from a GitHub URL.
// Both "github.com/owner/repo" and plain "owner/repo" forms are accepted.
func ParseRepoURL(url string) (string, string, error) {
	url = strings.TrimSpace(url)
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "github.com/")
	url = strings.TrimSuffix(url, ".git")

	parts := strings.Split(url, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("could not parse owner/repo from URL %q", url)
	}
	return parts[0], parts[1], nil
}

// FetchRepoYAML retrieves the IP description file '<repo>.yaml' from the
// root of a repository. URLs ending in '.git' are shallow-cloned; everything
// else is fetched through the raw-content endpoint.
func FetchRepoYAML(url string) (string, []byte, error) {
	owner, repo, err := ParseRepoURL(url)
	if err != nil {
		return "", nil, err
	}

	if strings.HasSuffix(strings.TrimSpace(url), ".git") {
		log.Debug("URL '%s' ends in '.git'. Cloning instead of raw fetch.\n", url)
		content, err := cloneRepoYAML(url, repo)
		return repo + ".yaml", content, err
	}

	return fetchRawYAML(owner, repo)
}

func fetchRawYAML(owner, repo string) (string, []byte, error) {
	filename := repo + ".yaml"
	for _, branch := range yamlBranches {
		rawURL := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, branch, filename)
		response, err := httpClient.Get(rawURL)
		if err != nil {
			return "", nil, fmt.Errorf("fetching %q: %s", rawURL, err)
		}
		if response.StatusCode == http.StatusOK {
			content, err := io.ReadAll(response.Body)
			response.Body.Close()
			if err != nil {
				return "", nil, fmt.Errorf("reading %q: %s", rawURL, err)
			}
			log.Debug("Found YAML file at '%s'.\n", rawURL)
			return filename, content, nil
		}
		response.Body.Close()
		log.Debug("No file at '%s' (HTTP %d).\n", rawURL, response.StatusCode)
	}
	return "", nil, fmt.Errorf("%s not found in repository %s/%s", filename, owner, repo)
}

func cloneRepoYAML(url, repo string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "wbgen-ip-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	_, err = git.PlainClone(dir, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %q: %s", url, err)
	}

	return os.ReadFile(filepath.Join(dir, repo+".yaml"))
}

// Aggregate fetches the IP description of every listed repository and merges
// them into the aggregated IP library JSON form. Repositories that cannot be
// fetched or parsed are skipped with an error message so that one broken
// vendor does not lose the rest.
func Aggregate(repoURLs []string) ([]byte, error) {
	entries := []interface{}{}

	for _, url := range repoURLs {
		owner, repo, err := ParseRepoURL(url)
		if err != nil {
			log.Error("%s\n", err)
			continue
		}
		log.Log("Processing repository %s/%s.\n", owner, repo)

		log.Spinner.Start()
		filename, content, err := FetchRepoYAML(url)
		log.Spinner.Stop()
		if err != nil {
			log.Error("%s\n", err)
			continue
		}

		var parsed interface{}
		if err := yaml.Unmarshal(content, &parsed); err != nil {
			log.Error("Failed to parse %s from %s/%s: %s\n", filename, owner, repo, err)
			continue
		}
		entries = append(entries, normalizeYAML(parsed))
		log.Success("Parsed %s from %s/%s.\n", filename, owner, repo)
	}

	return json.MarshalIndent(map[string]interface{}{"slaves": entries}, "", "    ")
}

// normalizeYAML converts the map[interface{}]interface{} values produced by
// yaml.v2 into map[string]interface{} so the result can be JSON-encoded.
func normalizeYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		result := map[string]interface{}{}
		for key, item := range v {
			result[fmt.Sprintf("%v", key)] = normalizeYAML(item)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = normalizeYAML(item)
		}
		return result
	default:
		return v
	}
}
