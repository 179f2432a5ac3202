package trainer

import "fmt"
import "io"
import "strings"

const progressBarWidth = 40

func progressBar(progress, width int) string {
	if progress > width {
		progress = width
	}
	return strings.Repeat("=", progress)
}

func emptySpace(space int) string {
	if space < 0 {
		space = 0
	}
	return strings.Repeat(" ", space)
}

// printProgress draws the epoch progress bar, done batches out of total.
func printProgress(w io.Writer, epoch, epochs, done, total int) {
	if w == nil || total <= 0 {
		return
	}
	progress := done * progressBarWidth / total
	percent := done * 100 / total
	fmt.Fprintf(w, "\rEpoch %d/%d [%s%s] %d%% ", epoch, epochs, progressBar(progress, progressBarWidth),
		emptySpace(progressBarWidth-progress), percent)
	if done == total {
		fmt.Fprintln(w)
	}
}
