/*
 * sequence.go, part of goqchem.
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

package qcio

import (
	"io"
	"strings"

	"github.com/egampel/goqchem/futil"
)

//JobSequence is an ordered list of jobs run back to back. Order is
//execution order; repeated jobs are kept as given.
type JobSequence struct {
	Jobs []*Job
}

//NewJobSequence builds a sequence from the given jobs.
func NewJobSequence(jobs ...*Job) *JobSequence {
	return &JobSequence{Jobs: jobs}
}

//String renders the whole sequence, jobs separated by the @@@ marker.
func (s *JobSequence) String() string {
	texts := make([]string, len(s.Jobs))
	for i, j := range s.Jobs {
		texts[i] = j.String()
	}
	return strings.Join(texts, "\n@@@\n\n\n")
}

//WriteFile writes the sequence to filename, compressing according to
//the file extension.
func (s *JobSequence) WriteFile(filename string) error {
	f, err := futil.Create(filename)
	if err != nil {
		return err
	}
	if _, err = f.Write([]byte(s.String())); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//ParseJobSequence splits the text on the @@@ marker and parses each
//piece as an independent job.
func ParseJobSequence(text string) (*JobSequence, error) {
	pieces := strings.Split(text, "@@@")
	jobs := make([]*Job, 0, len(pieces))
	for _, piece := range pieces {
		j, err := ParseJob(piece)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return NewJobSequence(jobs...), nil
}

//ReadJobSequence reads and parses a job sequence file, transparently
//decompressing gzip and zstd files.
func ReadJobSequence(filename string) (*JobSequence, error) {
	f, err := futil.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseJobSequence(string(data))
}

//WriteJobFile writes a single job to filename.
func WriteJobFile(j *Job, filename string) error {
	f, err := futil.Create(filename)
	if err != nil {
		return err
	}
	if _, err = f.Write([]byte(j.String())); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//ReadJobFile reads and parses a single job file.
func ReadJobFile(filename string) (*Job, error) {
	f, err := futil.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseJob(string(data))
}
