/*
 * qcoutput.go, part of goqchem.
 *
 *
 * Copyright 2016 Esteban Gampel <egampel{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package etl

import (
	"fmt"
	"io"

	"github.com/egampel/goqchem/qcio"
)

//OutputTransform reads records naming run-log files, parses each log
//and loads one document per job into the target.
type OutputTransform struct {
	//PathKey is the record field holding the log file name.
	PathKey string `mapstructure:"path_key"`
	//SkipMissing drops records whose log cannot be opened instead of
	//failing the whole source.
	SkipMissing bool `mapstructure:"skip_missing"`
}

func init() {
	Register("qcoutput", func(params map[string]interface{}) (Transform, error) {
		t := &OutputTransform{PathKey: "filename"}
		if err := DecodeParams(params, t); err != nil {
			return nil, err
		}
		if t.PathKey == "" {
			t.PathKey = "filename"
		}
		return t, nil
	})
}

//ExtractTransformLoad drains src, parsing every named log file and
//writing its job results to tgt.
func (t *OutputTransform) ExtractTransformLoad(src Source, tgt Sink) error {
	for {
		rec, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		name, ok := rec[t.PathKey].(string)
		if !ok {
			return fmt.Errorf("record has no %q field", t.PathKey)
		}
		results, err := qcio.ReadOutput(name)
		if err != nil {
			if t.SkipMissing {
				continue
			}
			return err
		}
		for i, res := range results {
			doc := map[string]interface{}{
				"filename": name,
				"job":      i,
				"result":   res,
			}
			if err := tgt.Write(doc); err != nil {
				return err
			}
		}
	}
}
