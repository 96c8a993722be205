package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gammazero/workerpool"

	"github.com/quiteok/qoi/qoi"
	"github.com/quiteok/qoi/zqoi"
)

const usage = `Usage: qoiconv [flags] <infile> <outfile>
       qoiconv [flags] -batch -to <ext> <infile>...
Examples:
	qoiconv input.png output.qoi
	qoiconv input.qoi output.png
	qoiconv -colorspace 0 input.png output.qoiz
	qoiconv -batch -to qoi -j 8 images/*.png
Flags:`

var errSameFile = errors.New("output would overwrite the input")

const unsupportedFormat = "The only supported formats are png, jpeg, gif, bmp, tiff, qoi & qoiz"

type options struct {
	channels   uint
	colorSpace int
	verbose    bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("qoiconv: ")

	var opts options
	batch := flag.Bool("batch", false, "convert every input file, writing next to it with the -to extension")
	to := flag.String("to", "qoi", "output extension in batch mode")
	workers := flag.Int("j", runtime.NumCPU(), "number of files converted concurrently in batch mode")
	flag.UintVar(&opts.channels, "channels", 0, "channel count written to QOI headers, 3 or 4 (0 detects it)")
	flag.IntVar(&opts.colorSpace, "colorspace", -1, "color space tag written to QOI headers: 0 linear, 1 sRGB (-1 keeps the input's, sRGB for non-QOI inputs)")
	flag.BoolVar(&opts.verbose, "v", false, "log every converted file")
	flag.Usage = printUsage
	flag.Parse()

	if err := opts.validate(); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	if *batch {
		if flag.NArg() == 0 {
			printUsage()
			os.Exit(2)
		}
		if failed := convertBatch(flag.Args(), *to, *workers, opts); failed > 0 {
			log.Fatalf("%d of %d conversions failed", failed, flag.NArg())
		}
		return
	}

	if flag.NArg() != 2 {
		printUsage()
		return
	}
	err := convert(flag.Arg(0), flag.Arg(1), opts)
	checkForUnsupportedFormat(err)
	if err != nil {
		log.Fatal(err)
	}
}

func printUsage() {
	fmt.Println(usage)
	flag.PrintDefaults()
}

func (o options) validate() error {
	if o.channels != 0 && o.channels != 3 && o.channels != 4 {
		return fmt.Errorf("channels must be 0, 3 or 4, got %d", o.channels)
	}
	if o.colorSpace != -1 && o.colorSpace != int(qoi.Linear) && o.colorSpace != int(qoi.SRGB) {
		return fmt.Errorf("colorspace must be -1, 0 or 1, got %d", o.colorSpace)
	}
	return nil
}

func checkForUnsupportedFormat(err error) {
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		fmt.Println(unsupportedFormat)
		os.Exit(1)
	}
}

// convertBatch converts every input concurrently and returns the number of failures.
// Each conversion runs its own encode or decode pass, so nothing is shared between workers.
func convertBatch(inputs []string, ext string, workers int, opts options) int {
	ext = "." + strings.TrimPrefix(ext, ".")
	wp := workerpool.New(workers)
	var (
		mu     sync.Mutex
		failed int
	)
	for _, input := range inputs {
		input := input
		output := strings.TrimSuffix(input, filepath.Ext(input)) + ext
		wp.Submit(func() {
			if err := convert(input, output, opts); err != nil {
				log.Printf("%s: %v", input, err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		})
	}
	wp.StopWait()
	return failed
}

func convert(inputFilename, outputFilename string, opts options) error {
	if filepath.Clean(inputFilename) == filepath.Clean(outputFilename) {
		return fmt.Errorf("%s: %w", outputFilename, errSameFile)
	}
	img, err := openImage(inputFilename)
	if err != nil {
		return err
	}
	if opts.channels != 0 {
		img.Channels = uint8(opts.channels)
	}
	if opts.colorSpace >= 0 {
		img.ColorSpace = qoi.ColorSpace(opts.colorSpace)
	}

	switch {
	case isQOIFilename(outputFilename):
		err = writeQOIImage(img, outputFilename)
	case isQOIZFilename(outputFilename):
		err = writeQOIZImage(img, outputFilename)
	default:
		err = writeGenericImage(img, outputFilename)
	}
	if err != nil {
		return err
	}
	if opts.verbose {
		log.Printf("%s -> %s (%dx%d, %d channels, %s)", inputFilename, outputFilename, img.Width(), img.Height(), img.Channels, img.ColorSpace)
	}
	return nil
}

func isQOIFilename(filename string) bool {
	return strings.HasSuffix(filename, ".qoi")
}

func isQOIZFilename(filename string) bool {
	return strings.HasSuffix(filename, zqoi.Extension)
}

func openImage(filename string) (*qoi.Image, error) {
	if isQOIFilename(filename) || isQOIZFilename(filename) {
		return openQOIImage(filename)
	}
	inputImg, err := imaging.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open the input image: %w", err)
	}
	return qoi.FromImage(inputImg), nil
}

func openQOIImage(filename string) (*qoi.Image, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open the input image: %w", err)
	}
	var img *qoi.Image
	if zqoi.IsCompressed(data) {
		img, err = zqoi.Decode(data)
	} else {
		img, err = qoi.Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode the input image: %w", err)
	}
	return img, nil
}

func writeGenericImage(img *qoi.Image, outputFilename string) error {
	err := imaging.Save(img.NRGBA(), outputFilename)
	if err != nil {
		return fmt.Errorf("could not save the output image: %w", err)
	}
	return nil
}

func writeQOIImage(img *qoi.Image, outputFilename string) error {
	data, err := qoi.Encode(img)
	if err != nil {
		return fmt.Errorf("could not encode the image: %w", err)
	}
	return writeFile(outputFilename, data)
}

func writeQOIZImage(img *qoi.Image, outputFilename string) error {
	data, err := zqoi.Encode(img)
	if err != nil {
		return fmt.Errorf("could not encode the image: %w", err)
	}
	return writeFile(outputFilename, data)
}

func writeFile(filename string, data []byte) error {
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("could not write the output file: %w", err)
	}
	return nil
}
