// Package process terminates the browser process tree left by a headless
// Chrome launch. Chrome forks renderer and GPU helpers; killing only the
// parent leaves them running.
package process
