package main

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/pipeline"
)

// loadSeeds reads seeds from path ("-" is stdin) followed by the positional
// args. Invalid seeds come back as discover-stage errors.
func loadSeeds(path string, stdin io.Reader, args []string) ([]string, []model.RunError, error) {
	var readers []io.Reader
	switch path {
	case "":
	case "-":
		readers = append(readers, stdin)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "open seeds file %s", path)
		}
		defer f.Close() //nolint:errcheck
		readers = append(readers, f)
	}
	if len(args) > 0 {
		readers = append(readers, strings.NewReader("\n"+strings.Join(args, "\n")))
	}
	return pipeline.ReadSeeds(io.MultiReader(readers...))
}

func readTargetList(path string) (model.TargetList, error) {
	var list model.TargetList
	f, err := os.Open(path)
	if err != nil {
		return list, eris.Wrapf(err, "open targets file %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := yaml.NewDecoder(f).Decode(&list); err != nil && err != io.EOF {
		return list, eris.Wrapf(err, "parse targets file %s", path)
	}
	for i, t := range list.Targets {
		list.Targets[i].Kind = model.ParseTargetKind(string(t.Kind))
	}
	return list, nil
}

func writeTargetList(w io.Writer, list model.TargetList) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(list); err != nil {
		return eris.Wrap(err, "encode target list")
	}
	return eris.Wrap(enc.Close(), "encode target list")
}

func writeTargetFile(path string, list model.TargetList) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create targets file %s", path)
	}
	if err := writeTargetList(f, list); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close targets file %s", path)
}
