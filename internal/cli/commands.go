package cli

import (
	"fmt"

	"github.com/franklee83/ppt2pdf-plus/internal/workflow"
)

// RunConvert runs the ppt2pdf command and returns the exit code.
func RunConvert(argv []string, streams IO) int {
	var args ConvertCommand
	if code, done := parse("ppt2pdf", &args, argv, streams); done {
		return code
	}

	e, cleanup, err := setup(args.CommonArgs, streams)
	if err != nil {
		return fail(streams, err)
	}
	defer cleanup()

	conv, err := e.converter(args.ConversionArgs)
	if err != nil {
		return fail(streams, err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	pdfPath, err := e.workflow(conv).Convert(ctx, workflow.ConvertOptions{
		InputPath: args.Input,
		OutputDir: args.OutputDir,
	})
	if err != nil {
		return fail(streams, err)
	}
	fmt.Fprintf(streams.Stdout, "Successfully converted to: %s\n", pdfPath)
	return ExitOK
}

// RunWatermark runs the pdfwatermark command and returns the exit code.
func RunWatermark(argv []string, streams IO) int {
	var args WatermarkCommand
	if code, done := parse("pdfwatermark", &args, argv, streams); done {
		return code
	}

	spec, err := args.WatermarkArgs.Spec()
	if err != nil {
		return fail(streams, err)
	}

	e, cleanup, err := setup(args.CommonArgs, streams)
	if err != nil {
		return fail(streams, err)
	}
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	if err := e.workflow(nil).Watermark(ctx, workflow.WatermarkOptions{
		InputPath:  args.Input,
		OutputPath: args.Output,
		Spec:       spec,
	}); err != nil {
		return fail(streams, err)
	}
	fmt.Fprintf(streams.Stdout, "Successfully added watermark to: %s\n", args.Output)
	return ExitOK
}

// RunConvertWatermark runs the ppt2pdf-watermark command and returns the exit code.
func RunConvertWatermark(argv []string, streams IO) int {
	var args ConvertWatermarkCommand
	if code, done := parse("ppt2pdf-watermark", &args, argv, streams); done {
		return code
	}

	spec, err := args.WatermarkArgs.Spec()
	if err != nil {
		return fail(streams, err)
	}

	e, cleanup, err := setup(args.CommonArgs, streams)
	if err != nil {
		return fail(streams, err)
	}
	defer cleanup()

	conv, err := e.converter(args.ConversionArgs)
	if err != nil {
		return fail(streams, err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := e.workflow(conv).ConvertAndWatermark(ctx, workflow.ConvertAndWatermarkOptions{
		InputPath:  args.Input,
		OutputPath: args.Output,
		Spec:       spec,
	}); err != nil {
		return fail(streams, err)
	}
	fmt.Fprintf(streams.Stdout, "Successfully converted and watermarked: %s\n", args.Output)
	return ExitOK
}
