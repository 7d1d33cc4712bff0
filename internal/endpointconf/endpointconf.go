// Package endpointconf loads the endpoint set under evaluation from the
// operator supplied configuration files. A missing or unreadable file is a
// fatal error for the caller: probing never starts without a configuration
// source.
package endpointconf

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/dockpick/dockpick/internal/model"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

// dnsServerInfo is a single resolver entry in the DNS config file.
type dnsServerInfo struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// dnsConfig is the DNS config file layout.
type dnsConfig struct {
	DNSServers map[string]dnsServerInfo `json:"dns_servers"`
}

// LoadDNS loads DNS resolver endpoints from the JSON file at path. The
// result is sorted by name so that downstream processing is deterministic
// regardless of map iteration order.
func LoadDNS(path string) ([]model.Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read DNS config")
	}
	var config dnsConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "cannot parse DNS config %s", path)
	}
	endpoints := []model.Endpoint{}
	for name, info := range config.DNSServers {
		endpoints = append(endpoints, model.Endpoint{
			Name:      name,
			Address:   info.Primary,
			Secondary: info.Secondary,
		})
	}
	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].Name < endpoints[j].Name
	})
	return endpoints, nil
}

// registryBlock is a single JSON block in the registry config file, using
// the same keys as the docker daemon configuration.
type registryBlock struct {
	RegistryMirrors    []string `json:"registry-mirrors"`
	InsecureRegistries []string `json:"insecure-registries"`
}

// LoadRegistry loads registry mirror endpoints from the file at path. The
// file consists of one or more JSON blocks separated by blank lines or by
// lines starting with "#". Each block is normalized with hujson first, so
// comments and trailing commas inside a block are tolerated. Blocks that
// still fail to parse are skipped: the file is operator maintained and a
// broken block should not hide the healthy ones.
func LoadRegistry(path string) ([]model.Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read registry config")
	}
	endpoints := []model.Endpoint{}
	for idx, block := range splitBlocks(string(data)) {
		std, err := hujson.Standardize([]byte(block))
		if err != nil {
			log.Debugf("skipping malformed block %d in %s: %s", idx+1, path, err)
			continue
		}
		var parsed registryBlock
		if err := json.Unmarshal(std, &parsed); err != nil {
			log.Debugf("skipping malformed block %d in %s: %s", idx+1, path, err)
			continue
		}
		insecure := map[string]bool{}
		for _, mirror := range parsed.InsecureRegistries {
			insecure[mirror] = true
		}
		for _, mirror := range parsed.RegistryMirrors {
			endpoints = append(endpoints, model.Endpoint{
				Name:     fmt.Sprintf("Registry_%d", len(endpoints)+1),
				Address:  mirror,
				Insecure: insecure[mirror],
			})
		}
	}
	return endpoints, nil
}

// splitBlocks splits the registry config into JSON blocks. Lines starting
// with "#" and blank lines terminate the current block.
func splitBlocks(content string) []string {
	blocks := []string{}
	current := &strings.Builder{}
	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			blocks = append(blocks, current.String())
		}
		current.Reset()
	}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			flush()
			continue
		}
		current.WriteString(trimmed)
		current.WriteString("\n")
	}
	flush()
	return blocks
}
