package train_test

import (
	"testing"

	"github.com/slate-ml/slate/internal/autodiff"
	"github.com/slate-ml/slate/internal/backend/cpu"
	"github.com/slate-ml/slate/internal/nn"
	"github.com/slate-ml/slate/internal/optim"
	"github.com/slate-ml/slate/internal/tensor"
	"github.com/slate-ml/slate/internal/train"
)

type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// tinyDataset builds a linearly separable two-class problem: class 0 lives
// near (1, 0, ...) and class 1 near (0, 1, ...). A small MLP learns it in a
// handful of steps.
func tinyDataset(t *testing.T, backend Backend, examplesPerClass int) *train.Batch[Backend] {
	t.Helper()

	features := 4
	total := 2 * examplesPerClass
	inputs := make([]float32, total*features)
	targets := make([]int32, total)

	for i := 0; i < examplesPerClass; i++ {
		inputs[(2*i)*features] = 1 // class 0: first feature hot
		targets[2*i] = 0
		inputs[(2*i+1)*features+1] = 1 // class 1: second feature hot
		targets[2*i+1] = 1
	}

	inputTensor, err := tensor.FromSlice(inputs, tensor.Shape{total, features}, backend)
	if err != nil {
		t.Fatalf("FromSlice inputs: %v", err)
	}
	targetTensor, err := tensor.FromSlice(targets, tensor.Shape{total}, backend)
	if err != nil {
		t.Fatalf("FromSlice targets: %v", err)
	}

	return &train.Batch[Backend]{Inputs: inputTensor, Targets: targetTensor}
}

func tinyModel(backend Backend) *nn.MLP[Backend] {
	return nn.NewMLP(nn.MLPConfig{
		InputSize:  4,
		Hidden1:    8,
		Hidden2:    6,
		NumClasses: 2,
		Seed:       42,
	}, backend)
}

func TestSliceLoader(t *testing.T) {
	backend := autodiff.New(cpu.New())

	batch1 := tinyDataset(t, backend, 2)
	batch2 := tinyDataset(t, backend, 2)
	loader := train.NewSliceLoader(batch1, batch2)

	if loader.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", loader.Len())
	}

	got, ok := loader.Next()
	if !ok || got != batch1 {
		t.Error("first Next() should return the first batch")
	}
	got, ok = loader.Next()
	if !ok || got != batch2 {
		t.Error("second Next() should return the second batch")
	}
	if _, ok := loader.Next(); ok {
		t.Error("exhausted loader should return ok=false")
	}

	loader.Reset()
	if _, ok := loader.Next(); !ok {
		t.Error("Reset should rewind to the first batch")
	}
}

// TestTrainStep_DecreasesLoss runs repeated steps on one batch: with a
// small learning rate the loss must come down.
func TestTrainStep_DecreasesLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyModel(backend)

	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1}, backend)
	trainer := train.NewTrainer[*cpu.CPUBackend](model, optimizer, backend, train.TrainConfig{})

	batch := tinyDataset(t, backend, 4)

	firstLoss := trainer.TrainStep(batch)
	var lastLoss float32
	for i := 0; i < 20; i++ {
		lastLoss = trainer.TrainStep(batch)
	}

	if lastLoss >= firstLoss {
		t.Errorf("loss did not decrease: first %f, last %f", firstLoss, lastLoss)
	}
}

// TestTrainStep_MatchesManualUpdate verifies one full trainer cycle against
// a hand-driven backward pass with an identically seeded model.
func TestTrainStep_MatchesManualUpdate(t *testing.T) {
	lr := float32(0.05)

	// Trainer-driven update.
	backendA := autodiff.New(cpu.New())
	modelA := tinyModel(backendA)
	optimizerA := optim.NewSGD(modelA.Parameters(), optim.SGDConfig{LR: lr}, backendA)
	trainerA := train.NewTrainer[*cpu.CPUBackend](modelA, optimizerA, backendA, train.TrainConfig{})
	trainerA.TrainStep(tinyDataset(t, backendA, 2))

	// Manual update with the same seed and data.
	backendB := autodiff.New(cpu.New())
	modelB := tinyModel(backendB)
	optimizerB := optim.NewSGD(modelB.Parameters(), optim.SGDConfig{LR: lr}, backendB)
	batchB := tinyDataset(t, backendB, 2)

	tape := backendB.Tape()
	optimizerB.ZeroGrad()
	tape.Clear()
	tape.StartRecording()

	logProbs := modelB.Forward(batchB.Inputs)
	loss := nn.NewNLLLoss(backendB).Forward(logProbs, batchB.Targets)
	grads := autodiff.Backward(loss, backendB)

	tape.StopRecording()
	tape.Clear()
	optimizerB.Accumulate(grads)
	optimizerB.Step()

	paramsA := modelA.Parameters()
	paramsB := modelB.Parameters()
	for i := range paramsA {
		dataA := paramsA[i].Tensor().Data()
		dataB := paramsB[i].Tensor().Data()
		for j := range dataA {
			if dataA[j] != dataB[j] {
				t.Fatalf("parameter %d element %d: trainer %f, manual %f",
					i, j, dataA[j], dataB[j])
			}
		}
	}
}

func TestTrainEpoch_Stats(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyModel(backend)

	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05}, backend)
	trainer := train.NewTrainer[*cpu.CPUBackend](model, optimizer, backend, train.TrainConfig{})

	loader := train.NewSliceLoader(
		tinyDataset(t, backend, 3),
		tinyDataset(t, backend, 3),
	)

	stats := trainer.TrainEpoch(0, loader)

	if stats.Epoch != 0 {
		t.Errorf("Epoch = %d, want 0", stats.Epoch)
	}
	if stats.NumBatches != 2 {
		t.Errorf("NumBatches = %d, want 2", stats.NumBatches)
	}
	if stats.NumExamples != 12 {
		t.Errorf("NumExamples = %d, want 12", stats.NumExamples)
	}
	if stats.MeanLoss <= 0 {
		t.Errorf("MeanLoss = %f, want > 0", stats.MeanLoss)
	}
	if stats.SmoothLoss <= 0 {
		t.Errorf("SmoothLoss = %f, want > 0", stats.SmoothLoss)
	}
}

func TestTrain_MultipleEpochsImprove(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyModel(backend)

	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)
	trainer := train.NewTrainer[*cpu.CPUBackend](model, optimizer, backend, train.TrainConfig{Epochs: 5})

	loader := train.NewSliceLoader(tinyDataset(t, backend, 4))
	history := trainer.Train(loader)

	if len(history) != 5 {
		t.Fatalf("history length = %d, want 5", len(history))
	}

	first := history[0].MeanLoss
	last := history[len(history)-1].MeanLoss
	if last >= first {
		t.Errorf("training did not improve: first epoch %f, last epoch %f", first, last)
	}
}

// TestEvaluate_LearnsSeparableData trains on the separable dataset until
// evaluation accuracy reaches 100%.
func TestEvaluate_LearnsSeparableData(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyModel(backend)

	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.2, Momentum: 0.9}, backend)
	trainer := train.NewTrainer[*cpu.CPUBackend](model, optimizer, backend, train.TrainConfig{Epochs: 30})

	loader := train.NewSliceLoader(tinyDataset(t, backend, 4))
	trainer.Train(loader)

	accuracy := trainer.Evaluate(loader)
	if accuracy != 1.0 {
		t.Errorf("accuracy on separable data = %f, want 1.0", accuracy)
	}
}

// TestEvaluate_RestoresRecordingState: evaluation must not leave the tape
// recorder in a different state than it found it.
func TestEvaluate_RestoresRecordingState(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := tinyModel(backend)

	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1}, backend)
	trainer := train.NewTrainer[*cpu.CPUBackend](model, optimizer, backend, train.TrainConfig{})

	loader := train.NewSliceLoader(tinyDataset(t, backend, 2))

	// Off stays off.
	trainer.Evaluate(loader)
	if backend.Tape().IsRecording() {
		t.Error("Evaluate turned recording on")
	}

	// On stays on.
	backend.Tape().StartRecording()
	trainer.Evaluate(loader)
	if !backend.Tape().IsRecording() {
		t.Error("Evaluate turned recording off")
	}
	if backend.Tape().NumOps() != 0 {
		t.Errorf("Evaluate recorded %d ops", backend.Tape().NumOps())
	}
}
