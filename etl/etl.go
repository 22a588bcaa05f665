/*
 * etl.go, part of goqchem.
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
	"log"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
)

//Transform is one extract-transform-load operation: read everything
//from src, write the transformed documents to tgt.
type Transform interface {
	ExtractTransformLoad(src Source, tgt Sink) error
}

//Factory builds a Transform from the free-form params block of a
//source entry.
type Factory func(params map[string]interface{}) (Transform, error)

var transforms = map[string]Factory{}

//Register makes a transform available to pipelines under the given
//name. It is meant to be called from init functions.
func Register(name string, f Factory) {
	if _, dup := transforms[name]; dup {
		panic("etl: transform " + name + " registered twice")
	}
	transforms[name] = f
}

//ETLError wraps whatever went wrong for one source/target pair into a
//single uniform failure signal.
type ETLError struct {
	Source string
	Target string
	Err    error
}

func (e *ETLError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("etl failed: %v", e.Err)
	}
	return fmt.Sprintf("etl failed for source %s -> target %s: %v", e.Source, e.Target, e.Err)
}

func (e *ETLError) Unwrap() error { return e.Err }

//Runner executes all the operations of one pipeline configuration.
type Runner struct {
	cfg *Config
	//Logger receives per source progress lines; nil logs to stderr.
	Logger *log.Logger
}

//NewRunner returns a runner over cfg.
func NewRunner(cfg *Config) *Runner {
	return &Runner{cfg: cfg}
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

//Len returns the number of configured sources.
func (r *Runner) Len() int { return len(r.cfg.Sources) }

//Run executes every source's transform against the shared target, in
//configuration order. Failing sources do not stop the remaining ones;
//their errors are aggregated into the returned error. The first return
//value is the number of sources that ran cleanly.
func (r *Runner) Run() (int, error) {
	out, closeOut, err := openTarget(r.cfg.Target)
	if err != nil {
		return 0, &ETLError{Target: r.cfg.Target.File, Err: err}
	}
	defer closeOut()
	tgt := r.wrapTarget(out)
	n := 0
	var result *multierror.Error
	for _, sc := range r.cfg.Sources {
		if err := r.runOne(sc, tgt); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		n++
	}
	if err := tgt.Flush(); err != nil {
		result = multierror.Append(result, &ETLError{Target: r.cfg.Target.File, Err: err})
	}
	return n, result.ErrorOrNil()
}

func (r *Runner) wrapTarget(out Sink) Sink {
	if r.cfg.Target.Batch > 0 {
		return NewBatchSink(func(docs []interface{}) error {
			for _, d := range docs {
				if err := out.Write(d); err != nil {
					return err
				}
			}
			return out.Flush()
		}, r.cfg.Target.Batch)
	}
	return out
}

func (r *Runner) runOne(sc SourceConfig, tgt Sink) error {
	factory, ok := transforms[sc.Transform]
	if !ok {
		return &ETLError{Source: sc.File, Target: r.cfg.Target.File,
			Err: fmt.Errorf("no transform registered under %q", sc.Transform)}
	}
	t, err := factory(sc.Params)
	if err != nil {
		return &ETLError{Source: sc.File, Target: r.cfg.Target.File, Err: err}
	}
	in, closeIn, err := openSource(sc)
	if err != nil {
		return &ETLError{Source: sc.File, Target: r.cfg.Target.File, Err: err}
	}
	defer closeIn()
	r.logf("etl: %s -> %s via %s", sc.File, r.cfg.Target.File, sc.Transform)
	if err := t.ExtractTransformLoad(in, tgt); err != nil {
		if etlErr, ok := err.(*ETLError); ok {
			return etlErr
		}
		return &ETLError{Source: sc.File, Target: r.cfg.Target.File, Err: err}
	}
	return nil
}

func openSource(sc SourceConfig) (Source, func(), error) {
	if sc.File == STDIN {
		return NewJSONSource(os.Stdin), func() {}, nil
	}
	f, err := os.Open(sc.File)
	if err != nil {
		return nil, nil, err
	}
	return NewJSONSource(f), func() { f.Close() }, nil
}

func openTarget(tc TargetConfig) (Sink, func(), error) {
	if tc.File == STDOUT {
		return NewJSONSink(os.Stdout), func() {}, nil
	}
	f, err := os.Create(tc.File)
	if err != nil {
		return nil, nil, err
	}
	return NewJSONSink(f), func() { f.Close() }, nil
}

//DecodeParams fills a typed params struct from the free-form map of a
//source entry. Transform factories use it to keep their configuration
//declarative.
func DecodeParams(params map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
