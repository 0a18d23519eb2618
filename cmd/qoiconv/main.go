/*
DESCRIPTION
  qoiconv converts images between the QOI format and common raster
  formats. Files named on the command line are converted alongside the
  original by extension: .png, .bmp and .tiff inputs become .qoi, and
  .qoi inputs become the format selected by the -to flag.

AUTHORS
  Trek Hopton <trek@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package qoiconv is a command line image converter for the QOI format.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/img/codec/codecutil"
	"github.com/ausocean/img/codec/qoi"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logPath      = "/var/log/qoiconv/qoiconv.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

const pkg = "qoiconv: "

func main() {
	showVersion := flag.Bool("version", false, "show version")
	to := flag.String("to", codecutil.PNG, "output format for decoded QOI files (png, bmp or tiff)")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *to == codecutil.QOI || !codecutil.IsValid(*to) {
		log.Fatal(pkg+"invalid output format", "format", *to)
	}
	if flag.NArg() == 0 {
		log.Fatal(pkg + "no input files given")
	}

	for _, src := range flag.Args() {
		var dst string
		var err error
		if strings.EqualFold(filepath.Ext(src), ".qoi") {
			dst, err = fromQOI(src, *to)
		} else {
			dst, err = toQOI(src)
		}
		if err != nil {
			log.Error(pkg+"could not convert file", "file", src, "error", err.Error())
			continue
		}
		log.Info(pkg+"converted file", "src", src, "dst", dst)
	}
}

// toQOI transcodes a raster image file to QOI alongside the original,
// returning the destination path.
func toQOI(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	m, _, err := image.Decode(in)
	if err != nil {
		return "", errors.Wrap(err, "could not decode input image")
	}

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".qoi"
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	err = qoi.Encode(out, m)
	if err != nil {
		out.Close()
		return "", errors.Wrap(err, "could not encode qoi")
	}
	return dst, out.Close()
}

// fromQOI transcodes a QOI file to the given raster format alongside the
// original, returning the destination path.
func fromQOI(src, format string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	m, err := qoi.Decode(in)
	if err != nil {
		return "", errors.Wrap(err, "could not decode qoi")
	}

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + "." + format
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	switch format {
	case codecutil.PNG:
		err = png.Encode(out, m)
	case codecutil.BMP:
		err = bmp.Encode(out, m)
	case codecutil.TIFF:
		err = tiff.Encode(out, m, nil)
	}
	if err != nil {
		out.Close()
		return "", errors.Wrapf(err, "could not encode %s", format)
	}
	return dst, out.Close()
}
