// Package demo provides a small linear regression problem that implements
// every trial collaborator, so the search can run end to end from the CLI.
//
//   - [Solution]: hyperparameters learning_rate, batch_size, momentum, l2
//   - [Cases]: seeded synthetic regression data per iteration
//   - [Trainer]: mini-batch SGD with momentum
//   - [Stats]: mse, mae and r2 of a trained model
//   - [Evaluator]: accepts models under a test MSE threshold
//
// All randomness is seeded, so a given case number, iteration and seed always
// produce the same data and the same trained weights. Only the measured
// training time varies between runs.
package demo
